package importer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultStructure(t *testing.T) {
	st, err := LoadStructure("")
	require.NoError(t, err)
	assert.Len(t, st.Areas, 5)

	assert.Equal(t, "Subdelegación CTI", st.Resolve("Subdelegación de CTI"))
	assert.Equal(t, "Subdelegación Medio Ambiente", st.Resolve(" Subdelegación de MA "))
	assert.Equal(t, "Economía", st.Resolve("Economía"))
	assert.Equal(t, "Dirección Administrativa (Economía)", DepartmentKey("Dirección Administrativa", "Economía"))
	assert.Equal(t, "Subdelegación OCIA (Departamento OCAI, Local informáticos)",
		LocalKey("Subdelegación OCIA", "Departamento OCAI", "Local informáticos"))

	var ocai *Department
	for i, dept := range st.Areas[1].Departments {
		if dept.Name == "Departamento OCAI" {
			ocai = &st.Areas[1].Departments[i]
		}
	}
	require.NotNil(t, ocai)
	assert.Equal(t, []string{"Local informáticos"}, ocai.Locals)
}

func TestParseStructureErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"Неизвестная версия", "version: 2\nareas:\n  - name: A\n"},
		{"Без областей", "version: 1\nareas: []\n"},
		{"Область без имени", "version: 1\nareas:\n  - departments: [X]\n"},
		{"Неверный YAML", "version: [1\n"},
		{"Отдел без имени", "version: 1\nareas:\n  - name: A\n    departments:\n      - locals: [L]\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseStructure([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestLoadStructureFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "structure.yaml")
	require.NoError(t, os.WriteFile(path, []byte("version: 1\nareas:\n  - name: Sede\n    departments: [Taller]\naliases:\n  Central: Sede\n"), 0o644))

	st, err := LoadStructure(path)
	require.NoError(t, err)
	require.Len(t, st.Areas, 1)
	assert.Equal(t, []Department{{Name: "Taller"}}, st.Areas[0].Departments)
	assert.Equal(t, "Sede", st.Resolve("Central"))

	_, err = LoadStructure(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
