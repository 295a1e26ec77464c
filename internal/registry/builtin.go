package registry

import "dropwatch/pkg/domain"

// builtinEntries seed the registry before the user store is merged in. The
// patterns mirror what each registry's whois server actually answers for an
// unregistered name; they drift over the years, so user-store overrides are
// first-class.
var builtinEntries = []domain.TLDEntry{
	{TLD: ".com", Server: "whois.verisign-grs.com", Pattern: `No match for`},
	{TLD: ".net", Server: "whois.verisign-grs.com", Pattern: `No match for`},
	{TLD: ".org", Server: "whois.publicinterestregistry.org", Pattern: `NOT FOUND`},
	{TLD: ".info", Server: "whois.nic.info", Pattern: `NOT FOUND`},
	{TLD: ".biz", Server: "whois.nic.biz", Pattern: `No Data Found`},
	{TLD: ".io", Server: "whois.nic.io", Pattern: `(NOT FOUND|Domain not found)`},
	{TLD: ".co", Server: "whois.nic.co", Pattern: `No Data Found`},
	{TLD: ".me", Server: "whois.nic.me", Pattern: `NOT FOUND`},
	{TLD: ".tv", Server: "whois.nic.tv", Pattern: `No match for`},
	{TLD: ".cc", Server: "ccwhois.verisign-grs.com", Pattern: `No match for`},
	{TLD: ".xyz", Server: "whois.nic.xyz", Pattern: `DOMAIN NOT FOUND`},
	{TLD: ".dev", Server: "whois.nic.google", Pattern: `Domain not found`},
	{TLD: ".app", Server: "whois.nic.google", Pattern: `Domain not found`},
	{TLD: ".ai", Server: "whois.nic.ai", Pattern: `Domain not found`},
	{TLD: ".sh", Server: "whois.nic.sh", Pattern: `Domain not found`},
	{TLD: ".de", Server: "whois.denic.de", Pattern: `Status:\s*free`},
	{TLD: ".uk", Server: "whois.nic.uk", Pattern: `No match`},
	{TLD: ".fr", Server: "whois.nic.fr", Pattern: `No entries found`},
	{TLD: ".nl", Server: "whois.domain-registry.nl", Pattern: `is free`},
	{TLD: ".eu", Server: "whois.eu", Pattern: `Status:\s*AVAILABLE`},
	{TLD: ".it", Server: "whois.nic.it", Pattern: `Status:\s*AVAILABLE`},
	{TLD: ".be", Server: "whois.dns.be", Pattern: `Status:\s*AVAILABLE`},
	{TLD: ".ch", Server: "whois.nic.ch", Pattern: `do not have an entry`},
	{TLD: ".at", Server: "whois.nic.at", Pattern: `nothing found`},
	{TLD: ".se", Server: "whois.iis.se", Pattern: `not found`},
	{TLD: ".no", Server: "whois.norid.no", Pattern: `No match`},
	{TLD: ".cz", Server: "whois.nic.cz", Pattern: `no entries found`},
	{TLD: ".pl", Server: "whois.dns.pl", Pattern: `No information available`},
	{TLD: ".jp", Server: "whois.jprs.jp", Pattern: `No match!!`},
	{TLD: ".ru", Server: "whois.tcinet.ru", Pattern: `No entries found`},
	{TLD: ".us", Server: "whois.nic.us", Pattern: `No Data Found`},
	{TLD: ".ca", Server: "whois.cira.ca", Pattern: `Not found:`},
	{TLD: ".in", Server: "whois.registry.in", Pattern: `NOT FOUND`},
}
