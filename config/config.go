package config

import "time"

type Config struct {
	Log struct {
		Level string `conf:"default:info"`
	}
	Web struct {
		Address         string        `conf:"default:0.0.0.0:8000"`
		ReadTimeout     time.Duration `conf:"default:5s"`
		WriteTimeout    time.Duration `conf:"default:10s"`
		IdleTimeout     time.Duration `conf:"default:120s"`
		ShutdownTimeout time.Duration `conf:"default:20s"`
	}
	Cors struct {
		Origin string
	}
	DB      DB
	Session struct {
		Lifetime time.Duration `conf:"default:24h"`
	}
	Auth struct {
		LoginBurst    int           `conf:"default:5"`
		LoginInterval time.Duration `conf:"default:12s"`
		LoginExpiry   time.Duration `conf:"default:15m"`
	}
	Carts struct {
		PerPage int `conf:"default:4"`
	}
	Nutritionix Nutritionix
}

type DB struct {
	User         string `conf:"default:postgres"`
	Password     string `conf:"default:postgres,mask"`
	Host         string `conf:"default:localhost:5432"`
	Name         string `conf:"default:nutricart"`
	MaxIdleConns int    `conf:"default:0"`
	MaxOpenConns int    `conf:"default:0"`
	DisableTLS   bool   `conf:"default:true"`
}

type Nutritionix struct {
	URL     string `conf:"default:https://trackapi.nutritionix.com/v2"`
	AppID   string
	AppKey  string        `conf:"mask"`
	Timeout time.Duration `conf:"default:10s"`
	RPS     float64       `conf:"default:5"`
	Burst   int           `conf:"default:5"`
}
