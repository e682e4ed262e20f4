// seed_customers carga en la base los clientes exportados del POS anterior
// (CSV con cabecera: id,name,phone,discount_percentage,loyalty_points).
//
// Uso: go run ./cmd/seed_customers [ruta/clientes.csv]
// Por defecto busca clientes.csv en el directorio actual. Acepta archivos en
// UTF-8 o ISO-8859-1. Los clientes que ya existen se omiten.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jhoicas/Farmacia-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Farmacia-api/pkg/config"
)

func main() {
	csvPath := "clientes.csv"
	if len(os.Args) > 1 {
		csvPath = os.Args[1]
	}
	raw, err := os.ReadFile(csvPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir CSV: %v\n", err)
		os.Exit(1)
	}

	customers, err := parseCustomers(raw, time.Now())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer CSV: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuración: %v\n", err)
		os.Exit(1)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Conexión a PostgreSQL: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()
	if err := postgres.Migrate(ctx, pool); err != nil {
		fmt.Fprintf(os.Stderr, "Esquema: %v\n", err)
		os.Exit(1)
	}

	res, err := load(ctx, postgres.NewCustomerRepository(pool), customers)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar clientes: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Cargados %d clientes desde %s (%d ya existían)\n", res.Created, csvPath, res.Skipped)
}
