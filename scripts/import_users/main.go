package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/mroshb/red_social/internal/database"
	"github.com/mroshb/red_social/internal/models"
	"github.com/mroshb/red_social/internal/repositories"
	"github.com/mroshb/red_social/internal/security"
	"github.com/xuri/excelize/v2"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func main() {
	file := flag.String("file", "users.xlsx", "spreadsheet with nombre and foto_perfil columns")
	sheet := flag.String("sheet", "", "sheet to read (default: first sheet)")
	dryRun := flag.Bool("dry-run", false, "print the parsed rows without writing")
	flag.Parse()

	// Load .env
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	f, err := excelize.OpenFile(*file)
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()

	users, skipped, err := readUsers(f, *sheet)
	if err != nil {
		log.Fatal(err)
	}

	if *dryRun {
		fmt.Printf("Sheets: %v\n", f.GetSheetList())
		for i, u := range users {
			fmt.Printf("Row %d: nombre=%q foto_perfil=%q\n", i+1, u.Nombre, u.FotoPerfil)
		}
		fmt.Printf("%d users parsed, %d rows skipped (dry run)\n", len(users), skipped)
		return
	}

	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		os.Getenv("DB_HOST"), os.Getenv("DB_USER"), os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"), os.Getenv("DB_PORT"), envOr("DB_SSLMODE", "disable"))

	db, err := gorm.Open(postgres.Open(dsn), database.GormConfig(gormlogger.Warn))
	if err != nil {
		log.Fatal("failed to connect database:", err)
	}
	defer database.Close(db)

	if err := database.AutoMigrate(db); err != nil {
		log.Fatal("failed to migrate:", err)
	}

	imported := importUsers(context.Background(), repositories.NewUserRepository(db), users)
	fmt.Printf("Successfully imported %d users (%d rows skipped).\n", imported, skipped+len(users)-imported)
}

// readUsers parses the sheet; the first row is a header naming the columns.
// Rows without a usable name are counted as skipped.
func readUsers(f *excelize.File, sheet string) ([]models.User, int, error) {
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, 0, fmt.Errorf("no sheets found")
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, 0, fmt.Errorf("read sheet %s: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, 0, nil
	}

	nameCol, photoCol := -1, -1
	for i, header := range rows[0] {
		switch strings.ToLower(strings.TrimSpace(header)) {
		case "nombre":
			nameCol = i
		case "foto_perfil":
			photoCol = i
		}
	}
	if nameCol < 0 {
		return nil, 0, fmt.Errorf("sheet %s has no nombre column", sheet)
	}

	var users []models.User
	skipped := 0
	for _, row := range rows[1:] {
		name := security.SanitizeDisplayName(cell(row, nameCol))
		if name == "" {
			skipped++
			continue
		}
		users = append(users, models.User{
			Nombre:     name,
			FotoPerfil: strings.TrimSpace(cell(row, photoCol)),
		})
	}
	return users, skipped, nil
}

func importUsers(ctx context.Context, repo *repositories.UserRepository, users []models.User) int {
	imported := 0
	for i := range users {
		if err := repo.CreateUser(ctx, &users[i]); err != nil {
			fmt.Printf("Error creating user %q: %v\n", users[i].Nombre, err)
			continue
		}
		imported++
	}
	return imported
}

func cell(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return row[col]
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
