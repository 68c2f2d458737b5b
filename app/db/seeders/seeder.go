package seeders

import (
	"log"

	"github.com/tokobulan/catalog-admin/app/db/fakers"
	"gorm.io/gorm"
)

var categoryNames = []string{"Pakaian Pria", "Pakaian Wanita", "Sepatu", "Aksesoris"}

func DBSeed(db *gorm.DB) error {
	for _, name := range categoryNames {
		category := fakers.CategoryFaker(name)
		if err := db.FirstOrCreate(category, "name = ?", category.Name).Error; err != nil {
			return err
		}

		for i := 0; i < 3; i++ {
			product := fakers.ProductFaker(category)
			if err := db.Create(product).Error; err != nil {
				return err
			}
		}
		log.Printf("Seeder: kategori %s terisi.", name)
	}
	return nil
}
