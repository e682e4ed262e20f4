// devtoken emite un JWT firmado con JWT_SECRET para probar la API en local.
// En producción los tokens los emite el módulo de autenticación de la clínica.
//
// Uso: go run ./cmd/devtoken <rol> [user_id] [branch_id]
// Roles: admin | cajero | farmaceutico
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Farmacia-api/pkg/config"
	"github.com/jhoicas/Farmacia-api/pkg/jwt"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "uso: devtoken <rol> [user_id] [branch_id]")
		os.Exit(2)
	}
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuración: %v\n", err)
		os.Exit(1)
	}
	if cfg.App.Env == "production" {
		fmt.Fprintln(os.Stderr, "devtoken no se usa en producción")
		os.Exit(1)
	}

	id := jwt.Identity{Role: os.Args[1], UserID: uuid.New().String()}
	if len(os.Args) > 2 {
		id.UserID = os.Args[2]
	}
	if len(os.Args) > 3 {
		id.BranchID = os.Args[3]
	}
	tok, err := jwt.Generate(cfg.JWT.Secret, cfg.JWT.Issuer, id, 8*time.Hour)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Firmar token: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(tok)
}
