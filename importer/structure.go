package importer

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"inventario-backend/models"
	"inventario-backend/services"

	"gopkg.in/yaml.v3"
)

//go:embed structure.yaml
var defaultStructure []byte

// Area область верхнего уровня и ее отделы
type Area struct {
	Name        string       `yaml:"name"`
	Departments []Department `yaml:"departments"`
}

// Department отдел и его локали третьего уровня.
// В YAML отдел без локалей записывается просто строкой.
type Department struct {
	Name   string   `yaml:"name"`
	Locals []string `yaml:"locals"`
}

// UnmarshalYAML принимает и строку, и отображение {name, locals}
func (d *Department) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		d.Name = node.Value
		d.Locals = nil
		return nil
	}
	type plain Department
	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}
	*d = Department(p)
	return nil
}

// Structure предопределенная организационная структура, по которой
// сопоставляется колонка "ubicacion" таблиц импорта
type Structure struct {
	Version int               `yaml:"version"`
	Areas   []Area            `yaml:"areas"`
	Aliases map[string]string `yaml:"aliases"`
}

// ParseStructure разбирает YAML описание структуры
func ParseStructure(b []byte) (*Structure, error) {
	var st Structure
	if err := yaml.Unmarshal(b, &st); err != nil {
		return nil, err
	}
	if st.Version != 1 {
		return nil, errors.New("structure: unsupported version")
	}
	if len(st.Areas) == 0 {
		return nil, errors.New("structure: empty")
	}
	for _, area := range st.Areas {
		if strings.TrimSpace(area.Name) == "" {
			return nil, errors.New("structure: area without name")
		}
		for _, department := range area.Departments {
			if strings.TrimSpace(department.Name) == "" {
				return nil, fmt.Errorf("structure: department without name in %s", area.Name)
			}
		}
	}
	return &st, nil
}

// LoadStructure читает структуру из файла; при пустом пути используется встроенная
func LoadStructure(path string) (*Structure, error) {
	if path == "" {
		return ParseStructure(defaultStructure)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseStructure(b)
}

// Resolve применяет псевдонимы к значению ubicacion
func (st *Structure) Resolve(ubicacion string) string {
	ubicacion = strings.TrimSpace(ubicacion)
	if alias, ok := st.Aliases[ubicacion]; ok {
		return alias
	}
	return ubicacion
}

// Locations сопоставление ubicacion и узла иерархии
type Locations map[string]*models.OrgNode

// Lookup ищет узел по значению ubicacion с учетом псевдонимов
func (l Locations) Lookup(st *Structure, ubicacion string) (*models.OrgNode, bool) {
	node, ok := l[st.Resolve(ubicacion)]
	return node, ok
}

// DepartmentKey ключ отдела в колонке ubicacion: "Área (Departamento)"
func DepartmentKey(area, department string) string {
	return fmt.Sprintf("%s (%s)", area, department)
}

// LocalKey ключ локали в колонке ubicacion: "Área (Departamento, Local)"
func LocalKey(area, department, local string) string {
	return fmt.Sprintf("%s (%s, %s)", area, department, local)
}

// ensureLocations создает недостающие области, отделы и локали и строит карту ubicacion
func ensureLocations(h *services.HierarchyService, st *Structure, logf func(format string, args ...interface{})) (Locations, error) {
	locations := Locations{}

	for _, area := range st.Areas {
		areaNode, created, err := h.GetOrCreate(area.Name, nil)
		if err != nil {
			return nil, fmt.Errorf("area %s: %w", area.Name, err)
		}
		locations[area.Name] = areaNode
		if created {
			logf("  + Creada área principal: %s", area.Name)
		} else {
			logf("  ✓ Área principal existente: %s", area.Name)
		}

		for _, department := range area.Departments {
			deptNode, created, err := h.GetOrCreate(department.Name, &areaNode.ID)
			if err != nil {
				return nil, fmt.Errorf("department %s: %w", department.Name, err)
			}
			locations[DepartmentKey(area.Name, department.Name)] = deptNode
			if created {
				logf("  + Creado departamento: %s en %s", department.Name, area.Name)
			} else {
				logf("  ✓ Departamento existente: %s en %s", department.Name, area.Name)
			}

			for _, local := range department.Locals {
				localNode, created, err := h.GetOrCreate(local, &deptNode.ID)
				if err != nil {
					return nil, fmt.Errorf("local %s: %w", local, err)
				}
				locations[LocalKey(area.Name, department.Name, local)] = localNode
				if created {
					logf("  + Creado local: %s en %s", local, department.Name)
				} else {
					logf("  ✓ Local existente: %s en %s", local, department.Name)
				}
			}
		}
	}

	logf("✓ Procesadas %d áreas organizativas", len(locations))
	return locations, nil
}
