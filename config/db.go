package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strings"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"adventure-backend/models"
	"adventure-backend/utils"
)

var DB *gorm.DB

func mysqlDSNFromURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}

	user := u.User.Username()
	pass, _ := u.User.Password()
	host := u.Hostname()
	port := u.Port()
	if port == "" {
		port = "3306"
	}

	dbName := strings.TrimPrefix(u.Path, "/")
	if dbName == "" {
		return "", fmt.Errorf("mysql url missing database name")
	}

	q := u.Query()
	if q.Get("charset") == "" {
		q.Set("charset", "utf8mb4")
	}
	if q.Get("parseTime") == "" {
		q.Set("parseTime", "True")
	}
	if q.Get("loc") == "" {
		q.Set("loc", "Local")
	}

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?%s", user, pass, host, port, dbName, q.Encode()), nil
}

func resolveMySQLDSN() (string, error) {
	raw := strings.TrimSpace(os.Getenv("MYSQL_URL"))
	if raw == "" {
		raw = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	}

	if raw != "" {
		if strings.HasPrefix(raw, "mysql://") {
			return mysqlDSNFromURL(raw)
		}
		return raw, nil
	}

	user := utils.EnvOrDefault("DB_USER", "root")
	pass := utils.EnvOrDefault("DB_PASS", "")
	host := utils.EnvOrDefault("DB_HOST", "127.0.0.1")
	port := utils.EnvOrDefault("DB_PORT", "3306")
	dbName := utils.EnvOrDefault("DB_NAME", "adventure_db")

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		user, pass, host, port, dbName,
	), nil
}

// SeedDatabase ensures a super admin account exists so a fresh install is
// operable. The phone number comes from SUPER_ADMIN_PHONE.
func SeedDatabase() {
	phone := strings.TrimSpace(os.Getenv("SUPER_ADMIN_PHONE"))
	if phone == "" {
		log.Println("SUPER_ADMIN_PHONE not set; skipping super admin seed")
		return
	}

	var count int64
	DB.Model(&models.User{}).Where("phone_number = ?", phone).Count(&count)
	if count > 0 {
		return
	}

	admin := models.User{
		PhoneNumber: &phone,
		Username:    "superadmin",
		IsActive:    true,
		IsAvailable: true,
	}
	admin.SetRoles([]string{models.RoleGeneral, models.RoleAdmin, models.RoleSuperAdmin})

	if err := DB.Create(&admin).Error; err != nil {
		log.Printf("warning: failed to seed super admin: %v", err)
		return
	}
	log.Println("Super admin seeded")
}

// seedAdventures gives a fresh install something to render.
func seedAdventures() {
	var count int64
	DB.Model(&models.Adventure{}).Count(&count)
	if count > 0 {
		return
	}

	adventures := []models.Adventure{
		{
			Title:       "Everest Base Camp Trek",
			Description: "Twelve days through the Khumbu to Kala Patthar and base camp.",
			Packages: []models.Package{
				{Title: "Classic", Price: 1200, Description: "Teahouse route via Namche and Dingboche", Duration: 12},
				{Title: "Express", Price: 1800, Description: "Helicopter return from Gorakshep", Duration: 9},
			},
		},
		{
			Title:       "Annapurna Circuit",
			Description: "Thorong La crossing with side trips to Tilicho Lake.",
			Packages: []models.Package{
				{Title: "Full Circuit", Price: 950, Description: "Besisahar to Nayapul", Duration: 15},
			},
		},
	}

	if err := DB.Create(&adventures).Error; err != nil {
		log.Printf("warning: failed to seed adventures: %v", err)
		return
	}
	log.Println("Adventures seeded")
}

func ConnectDatabase() error {
	dsn, err := resolveMySQLDSN()
	if err != nil {
		return err
	}

	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold: time.Second,
			LogLevel:      logger.Warn,
			Colorful:      true,
		},
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{Logger: newLogger})
	if err != nil {
		return err
	}

	DB = db

	// Parent tables before children.
	if err := DB.AutoMigrate(
		&models.User{},
		&models.Otp{},
		&models.Adventure{},
		&models.Package{},
		&models.Booking{},
		&models.Payment{},
		&models.GuideRequest{},
		&models.InteractionLog{},
	); err != nil {
		return err
	}

	SeedDatabase()
	seedAdventures()
	return nil
}
