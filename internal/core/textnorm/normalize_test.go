package textnorm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		opts Options
		want string
	}{
		{
			name: "unicode spaces become plain spaces",
			in:   "Valor\u00a0Líquido:\u2003R$\u202f900,00",
			opts: InvoiceOptions,
			want: "Valor Líquido: R$ 900,00",
		},
		{
			name: "invisible marks stripped",
			in:   "\ufeffNúmero\u200b da NFS-e\u00ad",
			opts: InvoiceOptions,
			want: "Número da NFS-e",
		},
		{
			name: "line breaks unified",
			in:   "a\r\nb\rc\u2028d",
			opts: StatementOptions,
			want: "a\nb\nc\nd",
		},
		{
			name: "horizontal whitespace collapsed and trimmed",
			in:   "  Nome \t\t Completo:   JOAO  ",
			opts: StatementOptions,
			want: "Nome Completo: JOAO",
		},
		{
			name: "blank lines collapsed for invoices",
			in:   "a\n\n\n b\n \nc",
			opts: InvoiceOptions,
			want: "a\nb\nc",
		},
		{
			name: "blank lines kept for statements",
			in:   "a\n\n\nb",
			opts: StatementOptions,
			want: "a\n\n\nb",
		},
		{
			name: "control characters removed",
			in:   "x\x00y\x07z",
			opts: InvoiceOptions,
			want: "xyz",
		},
		{
			name: "empty",
			in:   "",
			opts: InvoiceOptions,
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in, tt.opts))
		})
	}
}

func TestFold(t *testing.T) {
	assert.Equal(t, "RETENCAO 4 65", Fold("Retenção 4,65%"))
	assert.Equal(t, "SIMPLES NACIONAL", Fold("  simples-nacional "))
	assert.Equal(t, "JOAO DA SILVA", Fold("João da Silva"))
	assert.Equal(t, "", Fold("--"))
}

func TestCollapseSpaces(t *testing.T) {
	assert.Equal(t, "a b c", CollapseSpaces("  a \n b\t\tc "))
}
