package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"hobbyte/internal/config"
	"hobbyte/internal/database"
	"hobbyte/internal/logging"
	"hobbyte/internal/service"
	"hobbyte/migrations"
)

func main() {
	exportCmd := flag.NewFlagSet("export", flag.ExitOnError)
	importCmd := flag.NewFlagSet("import", flag.ExitOnError)

	exportOutput := exportCmd.String("output", "", "Output file path (default: backup_YYYYMMDD_HHMMSS.json)")

	importInput := importCmd.String("input", "", "Input file path (required)")
	importClear := importCmd.Bool("clear", false, "Clear existing data before import (WARNING: destructive)")
	importYes := importCmd.Bool("yes", false, "Skip the confirmation prompt for -clear")

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cfg := config.Load()
	logger, err := logging.New(cfg.LogLevel, true)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		logger.Fatal("failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	// Make sure the schema exists before reading or writing it
	if err := db.RunMigrations(migrations.Files); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}

	backupService := service.NewBackupService(db, logger)

	switch os.Args[1] {
	case "export":
		exportCmd.Parse(os.Args[2:])
		handleExport(backupService, logger, *exportOutput)

	case "import":
		importCmd.Parse(os.Args[2:])
		if *importInput == "" {
			fmt.Println("Error: -input flag is required")
			importCmd.PrintDefaults()
			os.Exit(1)
		}
		handleImport(backupService, logger, *importInput, *importClear, *importYes)

	default:
		printUsage()
		os.Exit(1)
	}
}

func handleExport(backupService *service.BackupService, logger *zap.Logger, outputPath string) {
	if outputPath == "" {
		outputPath = fmt.Sprintf("backup_%s.json", time.Now().Format("20060102_150405"))
	}

	if dir := filepath.Dir(outputPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			logger.Fatal("failed to create output directory", zap.Error(err))
		}
	}

	logger.Info("exporting database", zap.String("file", outputPath))
	if err := backupService.ExportFile(outputPath); err != nil {
		logger.Fatal("export failed", zap.Error(err))
	}

	if info, err := os.Stat(outputPath); err == nil {
		logger.Info("export complete", zap.Float64("size_mb", float64(info.Size())/1024/1024))
	}
}

func handleImport(backupService *service.BackupService, logger *zap.Logger, inputPath string, clearData, skipConfirm bool) {
	if _, err := os.Stat(inputPath); os.IsNotExist(err) {
		logger.Fatal("input file does not exist", zap.String("file", inputPath))
	}

	if clearData {
		if !skipConfirm {
			fmt.Print("WARNING: This will delete all users and games. Type 'yes' to confirm: ")
			var confirmation string
			fmt.Scanln(&confirmation)
			if confirmation != "yes" {
				logger.Info("import cancelled")
				return
			}
		}

		if err := backupService.ClearAll(); err != nil {
			logger.Fatal("failed to clear database", zap.Error(err))
		}
	}

	logger.Info("importing database", zap.String("file", inputPath))
	if err := backupService.ImportFile(inputPath); err != nil {
		logger.Fatal("import failed", zap.Error(err))
	}
	logger.Info("import complete")
}

func printUsage() {
	fmt.Println("Hobbyte Database Backup Tool")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  backup export [options]    Export users and games to a JSON file")
	fmt.Println("  backup import [options]    Import users and games from a JSON file")
	fmt.Println()
	fmt.Println("Export Options:")
	fmt.Println("  -output <file>    Output file path (default: backup_YYYYMMDD_HHMMSS.json)")
	fmt.Println()
	fmt.Println("Import Options:")
	fmt.Println("  -input <file>     Input file path (required)")
	fmt.Println("  -clear            Clear existing data before import (WARNING: destructive)")
	fmt.Println("  -yes              Do not ask before clearing")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  backup export -output mybackup.json")
	fmt.Println("  backup import -input backup.json")
	fmt.Println("  backup import -input backup.json -clear")
	fmt.Println()
	fmt.Println("Environment Variables:")
	fmt.Println("  DB_TYPE          Database type: sqlite, postgres, or mysql (default: sqlite)")
	fmt.Println("  DB_PATH          SQLite database path (default: ./hobbyte.db)")
	fmt.Println("  DATABASE_URL     PostgreSQL or MySQL connection URL")
}
