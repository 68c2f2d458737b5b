package routes

import (
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/csrf"
	"github.com/gorilla/mux"
	"github.com/tokobulan/catalog-admin/app/configs"
	"github.com/tokobulan/catalog-admin/app/handlers/admin"
	"github.com/tokobulan/catalog-admin/app/middlewares"
	"github.com/tokobulan/catalog-admin/app/repositories"
	"github.com/tokobulan/catalog-admin/app/services"
	"github.com/tokobulan/catalog-admin/app/utils/renderer"
	"gorm.io/gorm"
)

func NewRouter(db *gorm.DB, imageStore services.ImageStore) *mux.Router {
	router := mux.NewRouter()
	router.Use(middlewares.LoggingMiddleware)
	router.Use(middlewares.RecoverMiddleware)

	render := renderer.New()
	validate := validator.New()

	productRepo := repositories.NewProductRepository(db)
	imageRepo := repositories.NewProductImageRepository(db)
	attributeRepo := repositories.NewProductAttributeRepository(db)
	categoryRepo := repositories.NewCategoryRepository(db)

	productSvc := services.NewProductService(db, productRepo, imageRepo, attributeRepo, categoryRepo, imageStore, configs.LoadENV)

	adminHandler := admin.NewAdminHandler(render, validate, productSvc, productRepo, categoryRepo, imageStore)

	adminRouter := router.PathPrefix("/admin").Subrouter()
	if configs.LoadENV.CSRF_AUTH_KEY != "" {
		adminRouter.Use(csrf.Protect(
			[]byte(configs.LoadENV.CSRF_AUTH_KEY),
			csrf.Secure(configs.LoadENV.APP_ENV == "production"),
		))
	}

	adminRouter.HandleFunc("/products", adminHandler.GetProducts).Methods("GET")
	adminRouter.HandleFunc("/products/add", adminHandler.AddProductPost).Methods("POST")
	adminRouter.HandleFunc("/products/edit/{id}", adminHandler.EditProductPost).Methods("POST")
	adminRouter.HandleFunc("/products/delete/{id}", adminHandler.DeleteProductPost).Methods("POST")
	adminRouter.HandleFunc("/products/images/{id}/delete", adminHandler.DeleteImagePost).Methods("POST")
	adminRouter.HandleFunc("/products/images/{id}/main", adminHandler.SetMainImagePost).Methods("POST")
	adminRouter.HandleFunc("/products/{id}", adminHandler.GetProduct).Methods("GET")
	adminRouter.HandleFunc("/categories", adminHandler.GetCategories).Methods("GET")

	return router
}
