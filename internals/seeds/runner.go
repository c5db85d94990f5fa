package seeds

import (
	"fmt"
	"log"
	"os"

	"dormku_backend/internals/seeds/demo"

	"gorm.io/gorm"
)

// RunAllSeeds loads demo data from filePath, or the bundled data set when filePath is empty.
func RunAllSeeds(db *gorm.DB, filePath string) (demo.Result, error) {
	data := demo.DefaultData
	if filePath != "" {
		log.Println("[SEED] reading", filePath)
		b, err := os.ReadFile(filePath)
		if err != nil {
			return demo.Result{}, fmt.Errorf("read seed file: %w", err)
		}
		data = b
	}
	return demo.SeedDemoFromJSON(db, data)
}
