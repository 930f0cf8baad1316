package tls

import (
	"crypto/x509/pkix"
	"fmt"
	"strings"
)

// NameField is one attribute of a distinguished name.
type NameField struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// attributeNames maps attribute type OIDs to the long names OpenSSL prints.
var attributeNames = map[string]string{
	"2.5.4.3":                    "commonName",
	"2.5.4.4":                    "surname",
	"2.5.4.5":                    "serialNumber",
	"2.5.4.6":                    "countryName",
	"2.5.4.7":                    "localityName",
	"2.5.4.8":                    "stateOrProvinceName",
	"2.5.4.9":                    "streetAddress",
	"2.5.4.10":                   "organizationName",
	"2.5.4.11":                   "organizationalUnitName",
	"2.5.4.15":                   "businessCategory",
	"2.5.4.17":                   "postalCode",
	"2.5.4.97":                   "organizationIdentifier",
	"1.2.840.113549.1.9.1":       "emailAddress",
	"0.9.2342.19200300.100.1.25": "domainComponent",
	"1.3.6.1.4.1.311.60.2.1.2":   "jurisdictionStateOrProvinceName",
	"1.3.6.1.4.1.311.60.2.1.3":   "jurisdictionCountryName",
}

// NameFields flattens a distinguished name into key/value pairs in the order
// the attributes appear in the certificate. Unknown attribute types keep
// their dotted OID as key.
func NameFields(name pkix.Name) []NameField {
	attrs := name.Names
	if len(attrs) == 0 {
		// Names is only populated for parsed certificates.
		for _, rdn := range name.ToRDNSequence() {
			attrs = append(attrs, rdn...)
		}
	}

	fields := make([]NameField, 0, len(attrs))
	for _, atv := range attrs {
		oid := atv.Type.String()
		key, ok := attributeNames[oid]
		if !ok {
			key = oid
		}
		fields = append(fields, NameField{Key: key, Value: fmt.Sprint(atv.Value)})
	}
	return fields
}

// FormatNameFields renders fields as "key=value, key=value".
func FormatNameFields(fields []NameField) string {
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f.Key+"="+f.Value)
	}
	return strings.Join(parts, ", ")
}
