package main

import (
	"log"
	"net/http"
	"os"

	"github.com/tokobulan/catalog-admin/app/cmd"
	"github.com/tokobulan/catalog-admin/app/configs"
	"github.com/tokobulan/catalog-admin/app/routes"
	"github.com/tokobulan/catalog-admin/app/services"
)

func main() {

	env := configs.LoadEnv()
	if len(os.Args) > 1 {
		cmd.RunCli()
		return
	}

	if env.CLOUDINARY_CLOUD_NAME == "" {
		log.Fatal("CLOUDINARY_CLOUD_NAME is empty! Please check your .env file.")
	}

	db, err := configs.OpenConnection()
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}
	log.Println("✅ Database connected.")

	imageStore, err := services.NewCloudinaryService(env)
	if err != nil {
		log.Fatal("Cloudinary init failed:", err)
	}
	log.Println("✅ Cloudinary client initialized.")

	router := routes.NewRouter(db, imageStore)

	server := http.Server{
		Addr:    env.Port,
		Handler: router,
	}

	log.Printf("🚀 Server starting on %s", server.Addr)
	if err := server.ListenAndServe(); err != nil {
		log.Println("failed to connecting to the server")
	}

}
