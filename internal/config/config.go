package config

import (
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	log "github.com/sirupsen/logrus"
)

type Application struct {
	Host       string     `koanf:"host"`
	Frontend   Frontend   `koanf:"frontend"`
	Database   Database   `koanf:"db"`
	Redis      Redis      `koanf:"redis"`
	Booking    Booking    `koanf:"booking"`
	Activities Activities `koanf:"activities"`
	Currency   Currency   `koanf:"currency"`
	Google     Google     `koanf:"google"`
}

type Frontend struct {
	Enabled bool `koanf:"enabled"`
}

type Database struct {
	Host   string `koanf:"host"`
	Port   int    `koanf:"port"`
	User   string `koanf:"user"`
	Pass   string `koanf:"pass"`
	Name   string `koanf:"name"`
	Schema string `koanf:"schema"`
}

type Redis struct {
	Addr string `koanf:"addr"`
	Pass string `koanf:"pass"`
	DB   int    `koanf:"db"`
}

// Booking holds the credentials for the flight/hotel booking provider API.
type Booking struct {
	BaseURL      string `koanf:"baseurl"`
	TokenURL     string `koanf:"tokenurl"`
	ClientId     string `koanf:"clientid"`
	ClientSecret string `koanf:"clientsecret"`
}

// Activities holds the endpoint of the activity/POI suggestion API.
type Activities struct {
	BaseURL string `koanf:"baseurl"`
	ApiKey  string `koanf:"apikey"`
}

type Currency struct {
	BaseURL string `koanf:"baseurl"`
}

type Google struct {
	ClientId     string `koanf:"clientid"`
	ClientSecret string `koanf:"clientsecret"`
}

func Load(path string) (Application, error) {
	var k = koanf.New(".")

	err := k.Load(structs.Provider(Application{
		Host: "http://localhost:3000",
		Frontend: Frontend{
			Enabled: true,
		},
		Database: Database{
			Host:   "localhost",
			Port:   5432,
			User:   "wayfare",
			Pass:   "",
			Name:   "wayfare",
			Schema: "wayfare",
		},
		Redis: Redis{
			Addr: "localhost:6379",
		},
		Booking: Booking{
			BaseURL:  "https://api.bookings.example.com/v2",
			TokenURL: "https://api.bookings.example.com/v1/security/oauth2/token",
		},
		Activities: Activities{
			BaseURL: "https://api.activities.example.com/v1",
		},
		Currency: Currency{
			BaseURL: "https://open.er-api.com/v6",
		},
	}, "koanf"), nil)
	if err != nil {
		log.Errorf("error loading config from structs: %v", err)
		return Application{}, err
	}

	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		if os.IsNotExist(err) {
			log.Infof("Config file not found at %s, using defaults and environment variables", path)
		} else {
			log.Errorf("error loading config from YAML: %v", err)
			return Application{}, err
		}
	} else {
		log.Infof("Loaded configuration from file: %s", path)
	}

	err = k.Load(env.ProviderWithValue("WAYFARE_", ".", func(k, v string) (string, interface{}) {
		// Transform the key.
		k = strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(k, "WAYFARE_")), "_", ".")
		return k, v
	}), nil)
	if err != nil {
		log.Errorf("error loading config from envs: %v", err)
		return Application{}, err
	}

	var app Application
	if err := k.Unmarshal("", &app); err != nil {
		return Application{}, err
	}

	return app, nil
}
