package rows

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSchema = Schema{
	"matricula": {"Matrícula", "Cod. Funcionário"},
	"valor":     {"Valor", "Vlr Lançamento"},
	"codigo":    {"Código", "Cod Evento"},
}

func TestCanonicalizerResolve(t *testing.T) {
	c := NewCanonicalizer(testSchema)

	tests := []struct {
		name   string
		header string
		want   Field
		ok     bool
	}{
		{"field name itself", "matricula", "matricula", true},
		{"accented alias with spaces", "  MATRÍCULA ", "matricula", true},
		{"punctuation folded", "cod-funcionario", "matricula", true},
		{"typo within threshold", "Matriculas", "matricula", true},
		{"alias with accent", "Vlr. Lançamento", "valor", true},
		{"unrelated header rejected", "Observações do RH", "", false},
		{"blank header", "   ", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := c.Resolve(tt.header)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestShortHeadersNeedExactMatch(t *testing.T) {
	c := NewCanonicalizer(Schema{"iss": {"ISS Retido"}, "pis": nil})
	_, ok := c.Resolve("INSS")
	assert.False(t, ok)

	f, ok := c.Resolve("pis")
	assert.True(t, ok)
	assert.Equal(t, Field("pis"), f)
}

func TestCanonicalize(t *testing.T) {
	c := NewCanonicalizer(testSchema)
	in := []Row{
		{"Matrícula": "123", "Código": "8781", "Valor": "10.000,00", "Extra": "x"},
		{"MATRICULA": "", "Cod. Funcionário": "456", "Vlr Lançamento": "R$ 1,50"},
	}

	out := c.Canonicalize(in)
	require.Len(t, out, 2)

	assert.Equal(t, "123", out[0].String("matricula"))
	assert.Equal(t, "8781", out[0].String("codigo"))
	assert.Equal(t, 10000.0, out[0].Money("valor"))
	assert.Len(t, out[0], 3, "unknown headers are dropped")

	assert.Equal(t, "456", out[1].String("matricula"), "blank duplicate does not shadow the filled one")
	assert.Equal(t, 1.5, out[1].Money("valor"))
	assert.False(t, out[1].Has("codigo"))
}

func TestRecordGetters(t *testing.T) {
	r := Record{
		"ano":    "2024.0",
		"flag":   "Sim",
		"nome":   "  JOAO   DA  SILVA ",
		"data":   "15/03/2024",
		"serial": "45366",
		"comp":   "03/2024",
		"bad":    "abc",
	}

	year, ok := r.Int("ano")
	assert.True(t, ok)
	assert.Equal(t, 2024, year)

	_, ok = r.Int("bad")
	assert.False(t, ok)

	assert.True(t, r.Flag("flag"))
	assert.False(t, r.Flag("bad"))
	assert.Equal(t, "JOAO DA SILVA", r.String("nome"))

	d, ok := r.Date("data")
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), d)

	d, ok = r.Date("serial")
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), d)

	y, m, ok := r.Competence("comp")
	assert.True(t, ok)
	assert.Equal(t, 2024, y)
	assert.Equal(t, 3, m)
}

func TestParseCompetence(t *testing.T) {
	tests := []struct {
		in          string
		year, month int
		ok          bool
	}{
		{"01/2024", 2024, 1, true},
		{"2024-12", 2024, 12, true},
		{"MAR/2024", 2024, 3, true},
		{"dez 2023", 2023, 12, true},
		{"2024", 2024, 0, true},
		{"31/01/2024", 2024, 1, true},
		{"13/2024", 2024, 13, false},
		{"", 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			y, m, ok := ParseCompetence(tt.in)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.year, y)
				assert.Equal(t, tt.month, m)
			}
		})
	}
}
