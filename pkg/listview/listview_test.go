package listview_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sermixer/backoffice-sdk/internal/domain/entity"
	"github.com/sermixer/backoffice-sdk/pkg/listview"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

func productos() []entity.Product {
	return []entity.Product{
		{ID: 1, Name: "Vasca Blu", Category: "Vasche", Company: entity.CompanySermixer, Price: decimal.NewFromInt(12500)},
		{ID: 2, Name: "Cifa Rossa", Category: "Cifa", Company: entity.CompanyS2TruckService, Price: decimal.NewFromInt(43000)},
		{ID: 3, Name: "Vasca Verde", Category: "Vasche", Company: entity.CompanySermixer, Price: decimal.NewFromInt(9800)},
	}
}

func nombres(items []entity.Product) []string {
	out := make([]string, len(items))
	for i, p := range items {
		out[i] = p.Name
	}
	return out
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests Apply
// ──────────────────────────────────────────────────────────────────────────────

// Un mapa de filtros vacío es la identidad.
func TestApply_FiltroVacioEsIdentidad(t *testing.T) {
	items := productos()
	out := listview.Apply(items, listview.Filters{})
	assert.Equal(t, items, out, "sin filtros debe devolver la colección completa")
}

// La búsqueda libre es case-insensitive y recorre todas las propiedades.
func TestApply_BusquedaLibreCaseInsensitive(t *testing.T) {
	out := listview.Apply(productos(), listview.Filters{listview.FilterSearch: "vasca"})
	assert.Equal(t, []string{"Vasca Blu", "Vasca Verde"}, nombres(out))

	// Coincidencia exacta del ejemplo de dos elementos
	dos := []entity.Product{
		{Name: "Vasca Blu"},
		{Name: "Cifa Rossa"},
	}
	out = listview.Apply(dos, listview.Filters{listview.FilterSearch: "vasca"})
	require.Len(t, out, 1)
	assert.Equal(t, "Vasca Blu", out[0].Name)
}

// La búsqueda también alcanza campos que no son el nombre.
func TestApply_BusquedaSobreTodosLosCampos(t *testing.T) {
	out := listview.Apply(productos(), listview.Filters{listview.FilterSearch: "s2_truck"})
	require.Len(t, out, 1)
	assert.Equal(t, "Cifa Rossa", out[0].Name)
}

// El centinela "all" no restringe, sea cual sea el valor real del campo.
func TestApply_CentinelaAllEsIdentidad(t *testing.T) {
	items := productos()
	out := listview.Apply(items, listview.Filters{"category": listview.All})
	assert.Equal(t, items, out)
}

// Un filtro por campo exige igualdad exacta.
func TestApply_FiltroExactoPorCampo(t *testing.T) {
	out := listview.Apply(productos(), listview.Filters{"category": "Vasche"})
	assert.Equal(t, []string{"Vasca Blu", "Vasca Verde"}, nombres(out))

	// Un campo inexistente en la entidad excluye todo
	out = listview.Apply(productos(), listview.Filters{"warehouse": "central"})
	assert.Empty(t, out)
}

// Filtros con claves disjuntas componen: aplicarlos en cadena equivale a
// aplicarlos juntos.
func TestApply_ComposicionDeFiltrosIndependientes(t *testing.T) {
	items := productos()
	f1 := listview.Filters{"category": "Vasche"}
	f2 := listview.Filters{listview.FilterSearch: "blu"}
	merged := listview.Filters{"category": "Vasche", listview.FilterSearch: "blu"}

	encadenado := listview.Apply(listview.Apply(items, f1), f2)
	junto := listview.Apply(items, merged)
	assert.Equal(t, junto, encadenado)
	require.Len(t, junto, 1)
	assert.Equal(t, "Vasca Blu", junto[0].Name)
}

// Valores vacíos se saltan por completo (sin restricción).
func TestApply_ValorVacioSeIgnora(t *testing.T) {
	items := productos()
	out := listview.Apply(items, listview.Filters{listview.FilterSearch: "", "category": ""})
	assert.Equal(t, items, out)
}

// Un patrón de búsqueda inválido cae a comparación literal en vez de fallar.
func TestApply_PatronInvalidoCaeALiteral(t *testing.T) {
	items := []entity.Product{
		{Name: "Vasca (usata)"},
		{Name: "Cifa Rossa"},
	}
	out := listview.Apply(items, listview.Filters{listview.FilterSearch: "vasca ("})
	require.Len(t, out, 1)
	assert.Equal(t, "Vasca (usata)", out[0].Name)
}

// El orden relativo de entrada se conserva y la entrada no se muta.
func TestApply_ConservaOrdenYNoMuta(t *testing.T) {
	items := productos()
	original := append([]entity.Product(nil), items...)
	_ = listview.Apply(items, listview.Filters{listview.FilterSearch: "vasca"})
	assert.Equal(t, original, items, "la entrada no debe mutarse")
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests SortBy / NextSort
// ──────────────────────────────────────────────────────────────────────────────

// Sin empates, ordenar asc y luego desc por la misma columna da la secuencia
// exactamente invertida.
func TestSortBy_AscYDescSonEspejo(t *testing.T) {
	items := productos()
	asc := listview.SortBy(items, "name", listview.Asc)
	desc := listview.SortBy(items, "name", listview.Desc)

	require.Equal(t, len(asc), len(desc))
	for i := range asc {
		assert.Equal(t, asc[i].ID, desc[len(desc)-1-i].ID)
	}
}

// Los precios (decimales transportados como cadena) ordenan numéricamente,
// no lexicográficamente.
func TestSortBy_PreciosOrdenanNumericamente(t *testing.T) {
	items := []entity.Product{
		{ID: 1, Name: "a", Price: decimal.NewFromInt(100)},
		{ID: 2, Name: "b", Price: decimal.NewFromInt(9)},
		{ID: 3, Name: "c", Price: decimal.NewFromInt(12)},
	}
	out := listview.SortBy(items, "price", listview.Asc)
	assert.Equal(t, []string{"b", "c", "a"}, nombres(out), "9 < 12 < 100")
}

// Los timestamps RFC3339 ordenan por instante.
func TestSortBy_TimestampsPorInstante(t *testing.T) {
	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	items := []entity.Product{
		{ID: 1, Name: "tarde", CreatedAt: base.Add(48 * time.Hour)},
		{ID: 2, Name: "temprano", CreatedAt: base},
		{ID: 3, Name: "medio", CreatedAt: base.Add(24 * time.Hour)},
	}
	out := listview.SortBy(items, "createdAt", listview.Asc)
	assert.Equal(t, []string{"temprano", "medio", "tarde"}, nombres(out))
}

// El ordenamiento es estable: los empates conservan el orden de entrada.
func TestSortBy_EstableConEmpates(t *testing.T) {
	items := []entity.Product{
		{ID: 1, Name: "igual", Category: "b"},
		{ID: 2, Name: "igual", Category: "a"},
		{ID: 3, Name: "igual", Category: "c"},
	}
	out := listview.SortBy(items, "name", listview.Asc)
	assert.Equal(t, []int64{1, 2, 3}, []int64{out[0].ID, out[1].ID, out[2].ID})
}

// Repetir la columna activa invierte la dirección; otra columna reinicia a asc.
func TestNextSort_ToggleYReset(t *testing.T) {
	col, dir := listview.NextSort("name", listview.Asc, "name")
	assert.Equal(t, "name", col)
	assert.Equal(t, listview.Desc, dir)

	col, dir = listview.NextSort("name", listview.Desc, "name")
	assert.Equal(t, listview.Asc, dir)
	assert.Equal(t, "name", col)

	col, dir = listview.NextSort("name", listview.Desc, "price")
	assert.Equal(t, "price", col)
	assert.Equal(t, listview.Asc, dir)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests Page / TotalPages
// ──────────────────────────────────────────────────────────────────────────────

func TestPage_TamañoYPaginaParcial(t *testing.T) {
	items := make([]entity.Product, 13)
	for i := range items {
		items[i] = entity.Product{ID: int64(i + 1)}
	}

	// Ninguna página excede el tamaño configurado
	for page := 1; page <= listview.TotalPages(len(items), 5); page++ {
		slice := listview.Page(items, page, 5)
		assert.LessOrEqual(t, len(slice), 5, "página %d", page)
	}

	// La última página puede ser parcial
	last := listview.Page(items, 3, 5)
	require.Len(t, last, 3)
	assert.Equal(t, int64(11), last[0].ID)

	// Fuera de rango: vacía
	assert.Empty(t, listview.Page(items, 4, 5))
	assert.Empty(t, listview.Page(items, 0, 5))
}

func TestTotalPages_Exacto(t *testing.T) {
	assert.Equal(t, 3, listview.TotalPages(13, 5))
	assert.Equal(t, 2, listview.TotalPages(10, 5))
	assert.Equal(t, 1, listview.TotalPages(1, listview.PageSizeProductGrid))
	assert.Equal(t, 0, listview.TotalPages(0, 5))
}
