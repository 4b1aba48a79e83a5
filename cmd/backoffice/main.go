// Command backoffice es el consumidor de referencia del SDK: inicia sesión,
// carga una colección y la muestra filtrada, ordenada y paginada por consola.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/sermixer/backoffice-sdk/internal/application/dto"
	"github.com/sermixer/backoffice-sdk/internal/application/session"
	"github.com/sermixer/backoffice-sdk/internal/application/store"
	"github.com/sermixer/backoffice-sdk/internal/infrastructure/rest"
	"github.com/sermixer/backoffice-sdk/internal/infrastructure/storage"
	"github.com/sermixer/backoffice-sdk/pkg/config"
	"github.com/sermixer/backoffice-sdk/pkg/listview"
	"github.com/sermixer/backoffice-sdk/pkg/logger"
)

func main() {
	var (
		kind     = flag.String("entity", "products", "colección: users | clients | products")
		search   = flag.String("search", "", "búsqueda libre sobre todos los campos")
		category = flag.String("category", listview.All, "filtro exacto de categoría (products)")
		company  = flag.String("company", listview.All, "filtro exacto de empresa")
		sortCol  = flag.String("sort", "name", "columna de ordenamiento")
		dir      = flag.String("dir", string(listview.Asc), "dirección: asc | desc")
		page     = flag.Int("page", 1, "página (1-indexada)")
		email    = flag.String("email", os.Getenv("BACKOFFICE_EMAIL"), "email de acceso")
		password = flag.String("password", os.Getenv("BACKOFFICE_PASSWORD"), "contraseña de acceso")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: "warn"})

	local, err := storage.Open(cfg.Storage.Path)
	if err != nil {
		log.Fatal().Err(err).Msg("abrir almacenamiento local")
	}
	client := rest.NewClient(cfg.API.BaseURL, cfg.API.Timeout(), local, log)
	sess := session.New(client, local, log)

	ctx := context.Background()
	if err := sess.Bootstrap(ctx); err != nil {
		log.Fatal().Err(err).Msg("resolver sesión")
	}
	if !sess.IsAuthenticated() {
		if *email == "" || *password == "" {
			fmt.Fprintln(os.Stderr, "sin sesión: indica -email y -password (o BACKOFFICE_EMAIL/BACKOFFICE_PASSWORD)")
			os.Exit(1)
		}
		if err := sess.Login(ctx, dto.LoginRequest{Email: *email, Password: *password}); err != nil {
			log.Fatal().Err(err).Msg("login")
		}
	}

	filters := listview.Filters{listview.FilterSearch: *search}
	direction := listview.Direction(*dir)

	switch *kind {
	case "users":
		users := store.NewUsersStore(client, log)
		if err := users.List(ctx); err != nil {
			log.Fatal().Err(err).Msg("listar usuarios")
		}
		filters["companyName"] = sentinel(*company)
		rows := listview.Page(listview.SortBy(listview.Apply(users.Items(), filters), *sortCol, direction), *page, listview.PageSizeUsers)
		w := newTable()
		fmt.Fprintln(w, "ID\tUSERNAME\tNOMBRE\tEMAIL\tEMPRESA\tROL")
		for _, u := range rows {
			fmt.Fprintf(w, "%d\t%s\t%s %s\t%s\t%s\t%s\n", u.ID, u.Username, u.FirstName, u.LastName, u.Email, u.CompanyName, u.Role)
		}
		w.Flush()
	case "clients":
		clients := store.NewClientsStore(client, log)
		if err := clients.List(ctx); err != nil {
			log.Fatal().Err(err).Msg("listar clientes")
		}
		rows := listview.Page(listview.SortBy(listview.Apply(clients.Items(), filters), *sortCol, direction), *page, listview.PageSizeClients)
		w := newTable()
		fmt.Fprintln(w, "ID\tNOMBRE\tEMPRESA\tP.IVA\tEMAIL\tCIUDAD")
		for _, c := range rows {
			fmt.Fprintf(w, "%d\t%s %s\t%s\t%s\t%s\t%s\n", c.ID, c.FirstName, c.LastName, c.CompanyName, c.VatNumber, c.Email, c.Address.City)
		}
		w.Flush()
	case "products":
		products := store.NewProductsStore(client, log)
		if err := products.List(ctx); err != nil {
			log.Fatal().Err(err).Msg("listar productos")
		}
		filters["category"] = sentinel(*category)
		filters["company"] = sentinel(*company)
		rows := listview.Page(listview.SortBy(listview.Apply(products.Items(), filters), *sortCol, direction), *page, listview.PageSizeProductList)
		w := newTable()
		fmt.Fprintln(w, "ID\tNOMBRE\tCATEGORÍA\tEMPRESA\tPRECIO")
		for _, p := range rows {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", p.ID, p.Name, p.Category, p.Company, p.Price.StringFixed(2))
		}
		w.Flush()
	default:
		fmt.Fprintf(os.Stderr, "colección desconocida: %s\n", *kind)
		os.Exit(1)
	}
}

// sentinel mantiene el centinela "all" cuando el flag no restringe.
func sentinel(v string) string {
	if v == "" {
		return listview.All
	}
	return v
}

func newTable() *tabwriter.Writer {
	return tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
}
