package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"sync"

	"github.com/joho/godotenv"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// Config holds the application's configuration values.
type Config struct {
	AppName           string `json:"appname"`
	AppEnv            string `json:"appenv"`
	AppPort           uint16 `json:"appport"`
	GinMode           string `json:"ginmode"`
	DBHost            string `json:"dbhost"`
	DBPort            uint16 `json:"dbport"`
	DBName            string `json:"dbname"`
	DBUser            string `json:"dbuser"`
	DBPass            string `json:"dbpass"`
	StatusEnforcement string `json:"statusenforcement"`
	ScheduleTZ        string `json:"scheduletz"`
}

var config *Config
var once sync.Once

// LoadConfig loads environment variables from a .env file when present and
// returns a singleton Config instance.
func LoadConfig() *Config {
	once.Do(func() {
		if err := godotenv.Load(); err != nil {
			log.Printf("no .env file loaded: %v", err)
		}

		appPort, _ := strconv.ParseUint(os.Getenv("APPPORT"), 10, 16)
		dbPort, _ := strconv.ParseUint(os.Getenv("DBPORT"), 10, 16)

		config = &Config{
			AppName:           os.Getenv("APPNAME"),
			AppEnv:            os.Getenv("APPENV"),
			AppPort:           uint16(appPort),
			GinMode:           os.Getenv("GINMODE"),
			DBHost:            os.Getenv("DBHOST"),
			DBPort:            uint16(dbPort),
			DBName:            os.Getenv("DBNAME"),
			DBUser:            os.Getenv("DBUSER"),
			DBPass:            os.Getenv("DBPASS"),
			StatusEnforcement: os.Getenv("STATUS_ENFORCEMENT"),
			ScheduleTZ:        os.Getenv("SCHEDULE_TZ"),
		}
	})
	return config
}

// ConnectMySQL establishes a connection to the MySQL database using the
// configuration values.
func ConnectMySQL() (*gorm.DB, error) {
	cfg := LoadConfig()
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true", cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	return db, nil
}
