package importer_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/finboard/internal/importer"
)

func TestParseFormat(t *testing.T) {
	f, err := importer.ParseFormat(" CGD ")
	require.NoError(t, err)
	assert.Equal(t, importer.FormatCGD, f)

	_, err = importer.ParseFormat("ofx")
	assert.Error(t, err)
}

func TestService_Import(t *testing.T) {
	s := importer.NewService("Checking")

	native := "Date,Description,Amount\n2024-03-15,Coffee,-3.20\n"
	txs, err := s.Import(importer.FormatNative, strings.NewReader(native))
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, "Checking", txs[0].Account)

	cgd := "Data mov.;Descrição;Montante\n30-01-2026;TEST;-10,00\n"
	txs, err = s.Import(importer.FormatCGD, strings.NewReader(cgd))
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, "Checking", txs[0].Account)

	_, err = s.Import("ofx", strings.NewReader(""))
	assert.Error(t, err)
}
