package config

import (
	"github.com/gotify/configor"
)

var Conf *Configuration

type Configuration struct {
	App struct {
		ListenAddr string `default:"" env:"APP_HOST"`
		Port       int    `default:"8080"  env:"APP_PORT"`
		// origins allowed to embed dashboards and call the public API
		EmbedOrigins string `default:"http://localhost:8000" env:"APP_EMBED_ORIGINS"`
	}
	Database struct {
		Host           string `default:"127.0.0.1" env:"DB_HOST"`
		Port           string `default:"5432" env:"DB_PORT"`
		Name           string `default:"budget-portal" env:"DB_NAME"`
		User           string `default:"postgres" env:"DB_USER"`
		Password       string `default:"postgres" env:"DB_PASSWORD"`
		MigrateOnStart *bool  `default:"true" env:"DB_MIGRATE_ON_START"`
		PreloadOnStart *bool  `default:"true" env:"DB_PRELOAD_ON_START"`
		DebugMode      *bool  `default:"false" env:"DB_DEBUG_MODE"`
	}
	Auth struct {
		JWTSecret      string `default:"" env:"AUTH_JWT_SECRET"`
		JWTExpireInSec int    `default:"86400" env:"AUTH_JWT_EXPIRE_IN_SEC"`
	}
	Superset struct {
		Host     string `default:"http://localhost:8088" env:"SUPERSET_HOST"`
		Username string `default:"" env:"SUPERSET_USERNAME"`
		Password string `default:"" env:"SUPERSET_PASSWORD"`
		// must match GUEST_TOKEN_JWT_SECRET on the Superset side
		GuestTokenSecret   string `default:"" env:"SUPERSET_GUEST_TOKEN_SECRET"`
		GuestTokenTTLInSec int    `default:"300" env:"SUPERSET_GUEST_TOKEN_TTL_IN_SEC"`
		RequestTimeoutSec  int    `default:"30" env:"SUPERSET_REQUEST_TIMEOUT_SEC"`
		ResourcesType      string `default:"dashboard" env:"SUPERSET_RESOURCES_TYPE"`
	}
	S3 struct {
		Endpoint        string `default:"127.0.0.1:9000" env:"S3_ENDPOINT"`
		AccessKeyID     string `default:"" env:"S3_ACCESS_KEY_ID"`
		SecretAccessKey string `default:"" env:"S3_SECRET_ACCESS_KEY"`
		BucketName      string `default:"budget-portal" env:"S3_BUCKET_NAME"`
		UseSSL          *bool  `default:"false" env:"S3_USE_SSL"`
		PublicBaseURL   string `default:"" env:"S3_PUBLIC_BASE_URL"`
	}
}

func configFiles() []string {
	return []string{"config.yml"}
}

func InitConfig() {
	if Conf != nil {
		return
	}
	conf := new(Configuration)
	err := configor.New(&configor.Config{}).Load(conf, configFiles()...)
	if err != nil {
		panic(err)
	}
	Conf = conf
}
