package mockapi

import "github.com/me/shopctl/pkg/model"

// Demo accounts loaded when ServerConfig.Seed is set.
const (
	DemoAdminEmail    = "admin@shop.local"
	DemoAdminPassword = "admin123"
	DemoUserEmail     = "user@shop.local"
	DemoUserPassword  = "user123"
)

func (s *Server) seed() {
	for _, u := range []SeedUser{
		{Name: "Admin", Email: DemoAdminEmail, Password: DemoAdminPassword, Role: model.RoleAdmin},
		{Name: "Shopper", Email: DemoUserEmail, Password: DemoUserPassword, Role: model.RoleUser},
	} {
		if err := s.addUser(u); err != nil {
			s.logger.Error("seed user", "email", u.Email, "error", err)
		}
	}

	for _, p := range []model.Product{
		{Name: "Ceramic Mug", Description: "350 ml stoneware mug", ImageURL: "https://picsum.photos/seed/mug/400", Price: model.MustMoney("10.00")},
		{Name: "Cotton Tee", Description: "Unisex crew neck t-shirt", ImageURL: "https://picsum.photos/seed/tee/400", Price: model.MustMoney("25.50")},
		{Name: "Canvas Tote", Description: "Heavy canvas shopping bag", ImageURL: "https://picsum.photos/seed/tote/400", Price: model.MustMoney("18.90")},
		{Name: "Notebook", Description: "A5 dotted notebook, 120 pages", ImageURL: "https://picsum.photos/seed/notebook/400", Price: model.MustMoney("7.25")},
	} {
		s.addProduct(p)
	}
	s.logger.Debug("seeded demo data", "users", len(s.users), "products", len(s.products))
}
