package metadata

// Built-in ordinal schemas for the verification and extraction kinds the
// classifier recognizes out of the box. Slot layouts follow the upstream
// verification providers; alternate layouts can be registered from schema
// files without touching this table.

func builtinSchemas() []*OrdinalSchema {
	return []*OrdinalSchema{
		{
			Kind: "PAN",
			Labels: []string{
				"pan status",
				"first name",
				"middle name",
				"full legal name",
				"last name",
				"aadhaar seeding status",
			},
			Synonyms: map[string]int{
				"pan holder name": 4,
				"holder name":     4,
				"name on pan":     4,
				"name as per pan": 4,
				"full name":       4,
				"pan active":      1,
				"seeding status":  6,
			},
		},
		{
			Kind: "GSTIN",
			Labels: []string{
				"trade name",
				"legal name",
				"gstin status",
				"registration date",
				"constitution of business",
				"taxpayer type",
				"nature of business activity",
				"building number",
				"building name",
				"street",
				"postal code",
				"locality",
				"district",
				"city",
				"state",
				"state code",
				"country",
				"floor number",
				"latitude",
				"longitude",
				"last updated date",
			},
			Synonyms: map[string]int{
				"business name":        1,
				"legal business name":  2,
				"legal name of firm":   2,
				"date of registration": 4,
				"constitution":         5,
				"pincode":              11,
				"pin code":             11,
				"zip":                  11,
				"zip code":             11,
				"door number":          8,
				"road":                 10,
			},
		},
		{
			Kind: "BANK_ACCOUNT",
			Labels: []string{
				"account exists",
				"name at bank",
				"bank name",
				"branch",
				"ifsc code",
			},
			Synonyms: map[string]int{
				"beneficiary name":    2,
				"account holder name": 2,
				"name as per bank":    2,
				"ifsc":                5,
			},
		},
		{
			Kind: "CIN",
			Labels: []string{
				"company name",
				"registration number",
				"date of incorporation",
				"company status",
				"registered address",
				"roc code",
				"company category",
			},
			Synonyms: map[string]int{
				"incorporation date": 3,
				"name of company":    1,
			},
		},
		{
			Kind: "AADHAAR",
			Labels: []string{
				"aadhaar status",
				"age band",
				"gender",
				"state",
				"mobile hash",
			},
		},

		// Extraction kinds: OCR slots for uploaded document images.
		{
			Kind:   "PAN_IMAGE",
			Labels: []string{"pan number"},
			Synonyms: map[string]int{
				"pan": 1,
			},
		},
		{
			Kind:   "GSTIN_CERT",
			Labels: []string{"gstin number"},
			Synonyms: map[string]int{
				"gstin":      1,
				"gst number": 1,
			},
		},
		{
			Kind: "CHEQUE_IMAGE",
			Labels: []string{
				"account number",
				"ifsc code",
			},
			Synonyms: map[string]int{
				"bank account number": 1,
				"ifsc":                2,
			},
		},
	}
}

// DefaultSchemaTable builds the schema table from the built-in layouts.
func DefaultSchemaTable() *SchemaTable {
	t := NewSchemaTable()
	for _, s := range builtinSchemas() {
		// Built-ins are maintained alongside Validate; registration cannot fail.
		if err := t.Register(s); err != nil {
			panic(err)
		}
	}
	return t
}
