package database

import (
	"fmt"
	"log"
	"time"

	"github.com/jipsalddae/backend/app/models"
	"github.com/jipsalddae/backend/internal/pkg/env"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const maxRetries = 5
const retryDelay = 5 * time.Second

const (
	DRIVER_MYSQL    = "mysql"
	DRIVER_POSTGRES = "postgres"
)

var DB *gorm.DB

// GetDB returns the shared connection pool opened by SetupDatabase.
func GetDB() *gorm.DB {
	return DB
}

// Driver reports the configured SQL dialect.
func Driver() string {
	if env.GetEnv("DB_DRIVER", DRIVER_MYSQL) == DRIVER_POSTGRES {
		return DRIVER_POSTGRES
	}
	return DRIVER_MYSQL
}

// DSN builds the connection string for the configured driver.
func DSN() string {
	if Driver() == DRIVER_POSTGRES {
		return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=Asia/Seoul",
			env.GetEnv("DB_HOST", "127.0.0.1"),
			env.GetEnv("DB_USER", ""),
			env.GetEnv("DB_PASSWORD", ""),
			env.GetEnv("DB_NAME", ""),
			env.GetEnv("DB_PORT", "5432"),
			env.GetEnv("DB_SSLMODE", "disable"),
		)
	}
	// "user:pass@tcp(127.0.0.1:3306)/dbname?charset=utf8mb4&parseTime=True&loc=Local"
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		env.GetEnv("DB_USER", ""),
		env.GetEnv("DB_PASSWORD", ""),
		env.GetEnv("DB_HOST", "127.0.0.1"),
		env.GetEnv("DB_PORT", "3306"),
		env.GetEnv("DB_NAME", ""),
	)
}

// Dialector returns the GORM dialector for DB_DRIVER.
func Dialector() gorm.Dialector {
	if Driver() == DRIVER_POSTGRES {
		return PostgresDialector()
	}
	return MySQLDialector()
}

func PostgresDialector() gorm.Dialector {
	return postgres.New(postgres.Config{
		DSN:                  DSN(),
		PreferSimpleProtocol: true,
	})
}

func MySQLDialector() gorm.Dialector {
	return mysql.New(mysql.Config{
		DSN:                       DSN(), // data source name
		DefaultStringSize:         256,   // default size for string fields
		DisableDatetimePrecision:  true,  // disable datetime precision, which not supported before MySQL 5.6
		DontSupportRenameIndex:    true,  // drop & create when rename index, rename index not supported before MySQL 5.7, MariaDB
		DontSupportRenameColumn:   true,  // `change` when rename column, rename column not supported before MySQL 8, MariaDB
		SkipInitializeWithVersion: false, // auto configure based on currently MySQL version
	})
}

// Models lists every table managed by AutoMigrate.
func Models() []interface{} {
	return []interface{}{
		&models.User{},
		&models.ProviderAccount{},
		&models.UserInfo{},
		&models.PolicyRule{},
		&models.PolicyOutput{},
		&models.IncomeRule{},
		&models.IncomeStandard{},
		&models.Favorite{},
		&models.RegionCode{},
	}
}

func SetupDatabase() {
	var err error
	config := &gorm.Config{}
	if !env.IsDev() {
		config.Logger = logger.Default.LogMode(logger.Warn)
	}

	for i := 0; i < maxRetries; i++ {
		DB, err = gorm.Open(Dialector(), config)
		if err == nil {
			if err = DB.AutoMigrate(Models()...); err != nil {
				log.Printf("AutoMigrate failed: %v", err)
			}
			return
		}

		log.Printf("Failed to connect to database (try %d/%d): %v", i+1, maxRetries, err)
		if i < maxRetries-1 {
			log.Printf("Retry number %v...", retryDelay)
			time.Sleep(retryDelay)
		}
	}

	if err != nil {
		panic(err)
	}
}
