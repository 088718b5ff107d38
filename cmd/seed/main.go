package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"
	_ "time/tzdata"

	"mavina/internal/app"
	"mavina/internal/config"
	"mavina/internal/database"
	"mavina/internal/domain"
	"mavina/internal/modules/appointment"
	"mavina/internal/pkg/logger"
	"mavina/internal/repository"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type seedProvider struct {
	email    string
	business string
	city     string
	services []domain.ServiceOffering
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	zl, err := logger.New(cfg.AppEnv, cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	db, err := database.Connect(cfg.DatabaseURL, zl)
	if err != nil {
		zl.Fatal("db connect failed", zap.Error(err))
	}
	if err := database.Migrate(db, repository.Models()...); err != nil {
		zl.Fatal("migrate failed", zap.Error(err))
	}

	ctx := context.Background()
	zl.Info("cleaning old data")
	for _, table := range []string{"booked_slots", "appointments", "vehicles", "service_offerings", "provider_working_hours", "providers", "users"} {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			zl.Fatal("cleanup failed", zap.String("table", table), zap.Error(err))
		}
	}

	users := repository.NewUserRepository(db)
	providerRepo := repository.NewProviderRepository(db)
	vehicles := repository.NewVehicleRepository(db)

	providerHash, _ := bcrypt.GenerateFromPassword([]byte("provider123"), bcrypt.DefaultCost)
	customerHash, _ := bcrypt.GenerateFromPassword([]byte("customer123"), bcrypt.DefaultCost)

	// ================== PROVIDERS ==================
	seeds := []seedProvider{
		{
			email: "kadikoy@mavina.app", business: "Kadıköy Mobil Yıkama", city: "İstanbul",
			services: []domain.ServiceOffering{
				{Label: "Dış Yıkama", Price: 350, DurationMinutes: 30},
				{Label: "İç + Dış Yıkama", Price: 600, DurationMinutes: 60},
			},
		},
		{
			email: "besiktas@mavina.app", business: "Beşiktaş Oto Kuaför", city: "İstanbul",
			services: []domain.ServiceOffering{
				{Label: "Dış Yıkama", Price: 400, DurationMinutes: 30},
				{Label: "Detaylı Temizlik", Price: 1500, DurationMinutes: 120},
			},
		},
		{
			email: "cankaya@mavina.app", business: "Çankaya Buharlı Yıkama", city: "Ankara",
			services: []domain.ServiceOffering{
				{Label: "Buharlı İç Temizlik", Price: 800, DurationMinutes: 90},
			},
		},
	}

	var providerUsers []*domain.User
	for i, s := range seeds {
		u := &domain.User{
			Email:        s.email,
			PasswordHash: string(providerHash),
			Role:         domain.RoleProvider,
			Name:         fmt.Sprintf("Sağlayıcı %d", i+1),
		}
		p := &domain.Provider{BusinessName: s.business, City: s.city, Rating: 4.5}
		if err := users.CreateProvider(ctx, u, p); err != nil {
			zl.Fatal("create provider failed", zap.String("email", s.email), zap.Error(err))
		}
		for _, offering := range s.services {
			offering.ProviderID = p.ID
			if err := providerRepo.CreateService(ctx, &offering); err != nil {
				zl.Fatal("create service failed", zap.Error(err))
			}
		}
		providerUsers = append(providerUsers, u)
	}
	zl.Info("providers created", zap.Int("count", len(providerUsers)), zap.String("password", "provider123"))

	// ================== CUSTOMERS ==================
	var customers []*domain.User
	for i, email := range []string{"ayse@mail.com", "mehmet@mail.com"} {
		u := &domain.User{
			Email:        email,
			PasswordHash: string(customerHash),
			Role:         domain.RoleCustomer,
			Name:         fmt.Sprintf("Müşteri %d", i+1),
			Phone:        fmt.Sprintf("+90 555 000 00%02d", i+1),
		}
		if err := users.Create(ctx, u); err != nil {
			zl.Fatal("create customer failed", zap.String("email", email), zap.Error(err))
		}
		customers = append(customers, u)

		v := &domain.Vehicle{
			CustomerID:   u.ID,
			Brand:        "Renault",
			Model:        "Clio",
			LicensePlate: fmt.Sprintf("34 ABC %03d", i+100),
			Type:         domain.VehicleHatchback,
			Year:         2019 + i,
		}
		if err := vehicles.Create(ctx, v); err != nil {
			zl.Fatal("create vehicle failed", zap.Error(err))
		}
	}
	zl.Info("customers created", zap.Int("count", len(customers)), zap.String("password", "customer123"))

	// ================== APPOINTMENTS ==================
	a := app.New(app.Deps{Config: cfg, DB: db, Log: zl})
	svc := a.Appointments

	first, err := providerRepo.GetByUserID(ctx, providerUsers[0].ID)
	if err != nil {
		zl.Fatal("provider lookup failed", zap.Error(err))
	}
	offerings, err := providerRepo.ListServices(ctx, first.ID)
	if err != nil || len(offerings) == 0 {
		zl.Fatal("provider has no services", zap.Error(err))
	}

	day := nextOpenDay(time.Now().In(cfg.Location))
	customer := appointment.Actor{UserID: customers[0].ID, Role: domain.RoleCustomer}
	providerActor := appointment.Actor{UserID: providerUsers[0].ID, Role: domain.RoleProvider}

	created := 0
	for i, clock := range []string{"10:00", "11:30", "14:00"} {
		req := appointment.CreateAppointmentRequest{
			ProviderID: first.ID,
			ServiceID:  offerings[i%len(offerings)].ID,
			Date:       day.Format("2006-01-02"),
			Time:       clock,
			Address:    "Moda Cad. No:12, Kadıköy",
		}
		ap, err := svc.Create(ctx, customer, req)
		if err != nil {
			if errors.Is(err, appointment.ErrSlotUnavailable) {
				continue
			}
			zl.Fatal("create appointment failed", zap.Error(err))
		}
		created++
		if i == 0 {
			if _, err := svc.Approve(ctx, providerActor, ap.ID); err != nil {
				zl.Fatal("approve failed", zap.Error(err))
			}
		}
	}
	zl.Info("appointments created", zap.Int("count", created), zap.String("date", day.Format("2006-01-02")))

	printSummary(db)
}

// nextOpenDay returns the first day after tomorrow that is open under the default hours.
func nextOpenDay(now time.Time) time.Time {
	hours := domain.DefaultWorkingHours()
	d := now.AddDate(0, 0, 2)
	for i := 0; i < 7; i++ {
		if hours.Day(domain.WeekdayOf(d)).Active {
			return d
		}
		d = d.AddDate(0, 0, 1)
	}
	return d
}

func printSummary(db *gorm.DB) {
	var users, providers, services, appointments int64
	db.Table("users").Count(&users)
	db.Table("providers").Count(&providers)
	db.Table("service_offerings").Count(&services)
	db.Table("appointments").Count(&appointments)
	log.Printf("seed done: users=%d providers=%d services=%d appointments=%d", users, providers, services, appointments)
}
