package whois

import (
	"dropwatch/pkg/serrors"

	whoisparser "github.com/likexian/whois-parser"
)

// Details holds the registration facts extracted from the whois response of a
// registered domain.
type Details struct {
	Registrar      string   `json:"registrar,omitempty"`
	CreatedDate    string   `json:"createdDate,omitempty"`
	UpdatedDate    string   `json:"updatedDate,omitempty"`
	ExpirationDate string   `json:"expirationDate,omitempty"`
	NameServers    []string `json:"nameServers,omitempty"`
	Statuses       []string `json:"statuses,omitempty"`
}

// ParseDetails extracts registration details from a raw whois response.
// Responses the parser cannot make sense of fail with ErrParse; callers
// typically degrade to the plain availability verdict.
func ParseDetails(raw string) (Details, error) {
	parsed, err := whoisparser.Parse(raw)
	if err != nil {
		return Details{}, serrors.Wrap(serrors.ErrParse, err, "could not parse whois response")
	}

	var d Details
	if parsed.Domain != nil {
		d.CreatedDate = parsed.Domain.CreatedDate
		d.UpdatedDate = parsed.Domain.UpdatedDate
		d.ExpirationDate = parsed.Domain.ExpirationDate
		d.NameServers = parsed.Domain.NameServers
		d.Statuses = parsed.Domain.Status
	}
	if parsed.Registrar != nil {
		d.Registrar = parsed.Registrar.Name
	}

	return d, nil
}
