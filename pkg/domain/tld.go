package domain

// TLDEntry maps a top-level domain to the whois server answering for it and
// the response pattern that signals availability. TLD always carries a
// leading dot and is lowercase; Pattern is a case-insensitive regular
// expression matched against the raw whois response.
type TLDEntry struct {
	TLD     string `json:"tld"`
	Server  string `json:"server"`
	Pattern string `json:"pattern"`
}
