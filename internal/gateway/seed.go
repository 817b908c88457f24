package gateway

import (
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/JuanVergara-9/miservicio-api/internal/domain"
)

// seed loads the demo dataset. Every demo account logs in with "demo123".
func (m *Mock) seed() {
	m.categories = []domain.CategoryWithSubcategories{
		{
			Category: domain.Category{ID: 1, Name: "Hogar", Slug: "home", Description: "Servicios para el hogar", Image: "/images/categories/home.jpg"},
			Subcategories: []domain.Subcategory{
				{ID: 101, Name: "Reparaciones generales", CategoryID: 1},
				{ID: 102, Name: "Limpieza", CategoryID: 1},
			},
		},
		{
			Category: domain.Category{ID: 2, Name: "Electricidad", Slug: "electricity", Description: "Servicios de electricidad", Image: "/images/categories/electricity.jpg"},
			Subcategories: []domain.Subcategory{
				{ID: 201, Name: "Instalaciones eléctricas", CategoryID: 2},
				{ID: 202, Name: "Reparaciones eléctricas", CategoryID: 2},
			},
		},
		{
			Category: domain.Category{ID: 3, Name: "Plomería", Slug: "plumbing", Description: "Servicios de plomería", Image: "/images/categories/plumbing.jpg"},
			Subcategories: []domain.Subcategory{
				{ID: 301, Name: "Instalaciones de agua", CategoryID: 3},
				{ID: 302, Name: "Reparaciones de cañerías", CategoryID: 3},
			},
		},
		{
			Category: domain.Category{ID: 4, Name: "Jardinería", Slug: "gardening", Description: "Servicios de jardinería", Image: "/images/categories/gardening.jpg"},
			Subcategories: []domain.Subcategory{
				{ID: 401, Name: "Mantenimiento", CategoryID: 4},
				{ID: 402, Name: "Diseño de jardines", CategoryID: 4},
			},
		},
	}

	demoHash, _ := bcrypt.GenerateFromPassword([]byte("demo123"), bcrypt.DefaultCost)

	m.users = []*mockUser{
		{User: domain.User{ID: 1, FirstName: "Carlos", LastName: "Gómez", Email: "carlos@demo.com", Role: domain.RoleProvider, IsProvider: true}, passwordHash: demoHash},
		{User: domain.User{ID: 2, FirstName: "Ana", LastName: "Rodríguez", Email: "ana@demo.com", Role: domain.RoleProvider, IsProvider: true}, passwordHash: demoHash},
		{User: domain.User{ID: 3, FirstName: "Luciano", LastName: "Pérez", Email: "luciano@demo.com", Role: domain.RoleProvider, IsProvider: true}, passwordHash: demoHash},
		{User: domain.User{ID: 101, FirstName: "María", LastName: "García", Email: "maria@demo.com", Role: domain.RoleClient}, passwordHash: demoHash},
		{User: domain.User{ID: 102, FirstName: "Juan", LastName: "Pérez", Email: "juan@demo.com", Role: domain.RoleClient}, passwordHash: demoHash},
		{User: domain.User{ID: 103, FirstName: "Roberto", LastName: "Sánchez", Email: "roberto@demo.com", Role: domain.RoleClient}, passwordHash: demoHash},
	}
	m.nextUserID = 103

	m.providers = []*domain.Provider{
		{
			ID: 1, UserID: 1,
			FirstName: "Carlos", LastName: "Gómez",
			Email: "carlos@demo.com", Phone: "2604123456",
			Birthdate: "1985-05-15", Province: "Mendoza", City: "San Rafael",
			Address: "Calle Principal 123", NationalID: "20301234567",
			Categories: []int{2}, Subcategories: []int{201, 202},
			Description:    "Electricista con más de 10 años de experiencia en instalaciones residenciales y comerciales.",
			ProfilePicture: "/image/perfil1.avif",
			AverageRating:  4.8, TotalReviews: 15,
			CreatedAt: mustTime("2022-01-15T10:30:00Z"), UpdatedAt: mustTime("2023-06-10T14:45:00Z"),
		},
		{
			ID: 2, UserID: 2,
			FirstName: "Ana", LastName: "Rodríguez",
			Email: "ana@demo.com", Phone: "2615987654",
			Birthdate: "1990-08-22", Province: "Mendoza", City: "Ciudad de Mendoza",
			Address: "Av. San Martín 456", NationalID: "27328765432",
			Categories: []int{3}, Subcategories: []int{301, 302},
			Description:    "Especialista en reparaciones urgentes y mantenimiento de cañerías.",
			ProfilePicture: "/image/perfil2.avif",
			AverageRating:  4.6, TotalReviews: 8,
			CreatedAt: mustTime("2022-03-20T09:15:00Z"), UpdatedAt: mustTime("2023-05-25T11:30:00Z"),
		},
		{
			ID: 3, UserID: 3,
			FirstName: "Luciano", LastName: "Pérez",
			Email: "luciano@demo.com", Phone: "2616543210",
			Birthdate: "1988-11-10", Province: "Mendoza", City: "Guaymallén",
			Address: "Calle Lateral 789", NationalID: "20332109876",
			Categories: []int{4}, Subcategories: []int{401, 402},
			Description:    "Diseño y mantenimiento de jardines y espacios verdes.",
			ProfilePicture: "/image/perfil3.avif",
			AverageRating:  4.9, TotalReviews: 12,
			CreatedAt: mustTime("2022-02-10T15:45:00Z"), UpdatedAt: mustTime("2023-06-05T10:20:00Z"),
		},
	}
	m.nextProviderID = 3

	m.reviews = []*domain.Review{
		{ID: 1, ProviderID: 1, UserID: 101, UserName: "María García", Rating: 5, Comment: "Excelente trabajo, muy profesional y puntual", CreatedAt: mustTime("2023-05-10T14:30:00Z")},
		{ID: 2, ProviderID: 1, UserID: 102, UserName: "Juan Pérez", Rating: 4, Comment: "Buen servicio aunque un poco caro", CreatedAt: mustTime("2023-05-15T10:20:00Z")},
		{ID: 3, ProviderID: 2, UserID: 103, UserName: "Roberto Sánchez", Rating: 5, Comment: "Muy recomendable, resolvió el problema rápidamente", CreatedAt: mustTime("2023-05-18T09:15:00Z")},
		{ID: 4, ProviderID: 3, UserID: 101, UserName: "María García", Rating: 5, Comment: "El jardín quedó hermoso, volvería a contratarlo", CreatedAt: mustTime("2023-05-20T16:45:00Z")},
	}
	m.nextReviewID = 4
}

func mustTime(v string) time.Time {
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		panic(err)
	}
	return t
}
