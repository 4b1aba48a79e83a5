// Package listview implementa el filtrado, ordenamiento y paginación
// genéricos que comparten todas las vistas de lista del backoffice.
// Son funciones puras: nunca mutan la secuencia de entrada.
package listview

import (
	"encoding/json"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Claves y centinelas reservados del mapa de filtros.
const (
	// FilterSearch activa la búsqueda libre sobre todas las propiedades.
	FilterSearch = "search"
	// All como valor de un filtro significa "sin restricción para este campo".
	All = "all"
)

// Tamaños de página fijos por vista.
const (
	PageSizeUsers       = 5
	PageSizeClients     = 5
	PageSizeProductList = 5
	PageSizeProductGrid = 6
)

// Filters mapa nombre de filtro -> valor. Valores vacíos se ignoran.
type Filters map[string]string

// Apply devuelve los elementos que pasan todos los filtros activos (AND lógico),
// en el mismo orden relativo de entrada.
//
// La clave reservada "search" compara contra todas las propiedades del elemento
// (stringificadas) sin distinguir mayúsculas; el valor se interpreta como patrón
// y, si no compila, como texto literal. Cualquier otra clave exige igualdad
// exacta del campo homónimo, salvo el centinela "all" que no restringe.
func Apply[T any](items []T, filters Filters) []T {
	out := make([]T, 0, len(items))

	var searchRE *regexp.Regexp
	if pattern, ok := filters[FilterSearch]; ok && pattern != "" {
		searchRE, _ = regexp.Compile("(?i)" + pattern)
	}

	for _, item := range items {
		props := properties(item)
		if matches(props, filters, searchRE) {
			out = append(out, item)
		}
	}
	return out
}

func matches(props map[string]any, filters Filters, searchRE *regexp.Regexp) bool {
	for key, value := range filters {
		if value == "" {
			continue // filtro inactivo
		}
		if key == FilterSearch {
			if !anyPropertyMatches(props, value, searchRE) {
				return false
			}
			continue
		}
		if value == All {
			continue
		}
		if stringify(props[key]) != value {
			return false
		}
	}
	return true
}

func anyPropertyMatches(props map[string]any, value string, re *regexp.Regexp) bool {
	for _, prop := range props {
		s := stringify(prop)
		if re != nil {
			if re.MatchString(s) {
				return true
			}
			continue
		}
		// Patrón inválido: comparación literal sin mayúsculas.
		if strings.Contains(strings.ToLower(s), strings.ToLower(value)) {
			return true
		}
	}
	return false
}

// Direction dirección de ordenamiento.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// SortBy devuelve una copia ordenada de forma estable por la columna indicada.
// Cadenas comparan con colación (acentos incluidos), números y decimales
// numéricamente, timestamps RFC3339 por instante. Columna vacía no ordena.
func SortBy[T any](items []T, column string, dir Direction) []T {
	out := append([]T(nil), items...)
	if column == "" || len(out) < 2 {
		return out
	}

	keys := make([]any, len(out))
	for i, item := range out {
		keys[i] = properties(item)[column]
	}

	col := collate.New(language.Italian, collate.IgnoreCase)
	idx := make([]int, len(out))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(i, j int) bool {
		c := compare(col, keys[idx[i]], keys[idx[j]])
		if dir == Desc {
			return c > 0
		}
		return c < 0
	})

	sorted := make([]T, len(out))
	for i, k := range idx {
		sorted[i] = out[k]
	}
	return sorted
}

// NextSort calcula la columna y dirección tras un clic de cabecera: repetir la
// columna activa invierte la dirección; una columna nueva reinicia a ascendente.
func NextSort(active string, dir Direction, clicked string) (string, Direction) {
	if clicked == active {
		if dir == Asc {
			return active, Desc
		}
		return active, Asc
	}
	return clicked, Asc
}

// Page devuelve la página pedida (1-indexada) con tamaño fijo. Fuera de rango
// devuelve una página vacía; la última página puede ser parcial.
func Page[T any](items []T, page, size int) []T {
	if size <= 0 || page < 1 {
		return nil
	}
	start := (page - 1) * size
	if start >= len(items) {
		return nil
	}
	end := start + size
	if end > len(items) {
		end = len(items)
	}
	return append([]T(nil), items[start:end]...)
}

// TotalPages devuelve ceil(total/size).
func TotalPages(total, size int) int {
	if size <= 0 || total <= 0 {
		return 0
	}
	return (total + size - 1) / size
}

// properties proyecta un elemento a sus propiedades serializadas (vía JSON),
// de modo que los filtros vean exactamente lo que viaja por el API.
func properties(item any) map[string]any {
	raw, err := json.Marshal(item)
	if err != nil {
		return nil
	}
	props := map[string]any{}
	if err := json.Unmarshal(raw, &props); err != nil {
		return nil
	}
	return props
}

func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		raw, err := json.Marshal(t)
		if err != nil {
			return ""
		}
		return string(raw)
	}
}

// compare ordena valores heterogéneos: nil primero, números y cadenas según su
// tipo detectado. Devuelve <0, 0 o >0.
func compare(col *collate.Collator, a, b any) int {
	if a == nil && b == nil {
		return 0
	}
	if a == nil {
		return -1
	}
	if b == nil {
		return 1
	}

	if fa, aOK := a.(float64); aOK {
		if fb, bOK := b.(float64); bOK {
			switch {
			case fa < fb:
				return -1
			case fa > fb:
				return 1
			default:
				return 0
			}
		}
	}

	if ba, aOK := a.(bool); aOK {
		if bb, bOK := b.(bool); bOK {
			switch {
			case ba == bb:
				return 0
			case !ba:
				return -1
			default:
				return 1
			}
		}
	}

	sa, sb := stringify(a), stringify(b)

	// Timestamps RFC3339 comparan por instante.
	if ta, err := time.Parse(time.RFC3339, sa); err == nil {
		if tb, err := time.Parse(time.RFC3339, sb); err == nil {
			switch {
			case ta.Before(tb):
				return -1
			case ta.After(tb):
				return 1
			default:
				return 0
			}
		}
	}

	// Decimales transportados como cadena (precios).
	if da, err := decimal.NewFromString(sa); err == nil {
		if db, err := decimal.NewFromString(sb); err == nil {
			return da.Cmp(db)
		}
	}

	return col.CompareString(sa, sb)
}
