package statement

// NewIndonesianFormat reads statements laid out like the big Indonesian retail
// banks: TANGGAL / KETERANGAN / CBG / MUTASI / SALDO columns with CR and DB markers.
func NewIndonesianFormat(descriptionMaxLength int) Format {
	return newLayout(layout{
		name:          "indonesian",
		detectPhrases: []string{"SALDO AWAL", "MUTASI", "KETERANGAN", "PERIODE", "REKENING"},
		openingLabels: []string{"SALDO AWAL", "OPENING BALANCE"},
		closingLabels: []string{"SALDO AKHIR", "CLOSING BALANCE"},
		footerPhrases: [][]string{
			{"MUTASI", "CR"}, {"MUTASI", "DB"}, {"MUTASI", "KREDIT"}, {"MUTASI", "DEBET"},
			{"TOTAL", "MUTASI"}, {"BERSAMBUNG"}, {"HALAMAN"},
		},
		noiseTokens:    toSet("TANGGAL", "TGL", "KETERANGAN", "CBG", "MUTASI", "SALDO", "CABANG", "JUMLAH"),
		creditMarkers:  toSet("CR", "KR", "CREDIT", "KREDIT"),
		debitMarkers:   toSet("DB", "DR", "DEBIT", "DEBET"),
		descriptionMax: descriptionMaxLength,
	})
}

// NewEnglishFormat reads English-language statements with DATE / DESCRIPTION /
// AMOUNT / BALANCE columns.
func NewEnglishFormat(descriptionMaxLength int) Format {
	return newLayout(layout{
		name:          "english",
		detectPhrases: []string{"OPENING BALANCE", "CLOSING BALANCE", "STATEMENT OF ACCOUNT", "STATEMENT PERIOD"},
		openingLabels: []string{"OPENING BALANCE", "BALANCE BROUGHT FORWARD", "SALDO AWAL"},
		closingLabels: []string{"CLOSING BALANCE", "BALANCE CARRIED FORWARD", "SALDO AKHIR"},
		footerPhrases: [][]string{
			{"TOTAL", "CREDITS"}, {"TOTAL", "DEBITS"}, {"TOTAL", "CREDIT"}, {"TOTAL", "DEBIT"},
			{"CONTINUED"}, {"PAGE"},
		},
		noiseTokens:    toSet("DATE", "DESCRIPTION", "DETAILS", "BRANCH", "AMOUNT", "BALANCE", "REF"),
		creditMarkers:  toSet("CR", "KR", "CREDIT"),
		debitMarkers:   toSet("DB", "DR", "DEBIT"),
		descriptionMax: descriptionMaxLength,
	})
}
