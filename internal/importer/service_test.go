package importer_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/tally/internal/importer"
)

const unicreditCSV = `Data Registrazione;Data valuta;Descrizione;Importo (EUR)
16/01/2025;16/01/2025;ADDEBITO SDD ENEL ENERGIA;-84,20
31/01/2025;31/01/2025;ACCREDITO CLIENTE;2.100,00
`

func TestService_Import(t *testing.T) {
	svc := importer.NewService()

	params, err := svc.Import(importer.BankUniCredit, "  LNC ", strings.NewReader(unicreditCSV))
	require.NoError(t, err)
	require.Len(t, params, 2)

	for _, p := range params {
		assert.Equal(t, "LNC", p.Company)
	}
}

func TestService_Import_Errors(t *testing.T) {
	type testCase struct {
		name    string
		bank    importer.Bank
		company string
		wantErr error
	}

	tests := []testCase{
		{name: "UnknownBank", bank: "bpm", company: "LNC", wantErr: importer.ErrUnknownBank},
		{name: "MissingCompany", bank: importer.BankCGD, company: " ", wantErr: importer.ErrMissingCompany},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := importer.NewService().Import(tt.bank, tt.company, strings.NewReader(unicreditCSV))
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestService_Import_WrongBankFormat(t *testing.T) {
	_, err := importer.NewService().Import(importer.BankCGD, "LNC", strings.NewReader(unicreditCSV))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no matching cgd format")
}

func TestService_Banks(t *testing.T) {
	assert.Equal(t,
		[]importer.Bank{importer.BankCGD, importer.BankFineco, importer.BankIntesa, importer.BankUniCredit},
		importer.NewService().Banks(),
	)
}
