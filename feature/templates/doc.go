// Package templates stores named column selections per snapshot format.
//
// A template binds a format fingerprint (headerId) to a list of column
// indices. Templates are kept in a JSON array file:
//
//	[
//	    {"headerId": "fb8e...", "templateName": "Billing", "indices": [0, 2]}
//	]
//
// Entries with a wrong field type are skipped when loading and reported
// as *FieldError. Every change is written back to the file.
package templates
