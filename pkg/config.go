package pkg

import (
	"os"

	"github.com/drone/envsubst"
	"github.com/subosito/gotenv"
	"go.yaml.in/yaml/v4"
)

type Config struct {
	DatabaseCfg  `yaml:"database" json:"database"`
	RabbitMQCfg  `yaml:"rabbitmq" json:"rabbitmq"`
	WebSocketCfg `yaml:"websocket" json:"websocket"`
	ServicesCfg  `yaml:"services" json:"services"`
	FinanceCfg   `yaml:"finance" json:"finance"`
}

type DatabaseCfg struct {
	Host     string `yaml:"host" json:"host"`
	Port     uint16 `yaml:"port" json:"port"`
	User     string `yaml:"user" json:"user"`
	Password string `yaml:"password" json:"password"`
	Database string `yaml:"database" json:"database"`
}

type RabbitMQCfg struct {
	Host     string `yaml:"host" json:"host"`
	Port     uint16 `yaml:"port" json:"port"`
	User     string `yaml:"user" json:"user"`
	Password string `yaml:"password" json:"password"`
}

type WebSocketCfg struct {
	Port uint16 `yaml:"port" json:"port"`
}

type ServicesCfg struct {
	Secret        string
	MarketService uint16 `yaml:"market_service" json:"market_service"`
}

type FinanceCfg struct {
	LowBalanceThreshold int64 `yaml:"low_balance_threshold" json:"low_balance_threshold"`
}

func ParseConfig() (*Config, error) {
	err := gotenv.Load()
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile("config.yml")
	if err != nil {
		return nil, err
	}

	// substitute env vars, with :- defaults
	replaced, err := envsubst.EvalEnv(string(data))
	if err != nil {
		return nil, err
	}
	cfg := &Config{}
	err = yaml.Unmarshal([]byte(replaced), cfg)
	if err != nil {
		return nil, err
	}
	cfg.ServicesCfg.Secret = os.Getenv("MYCABS_SECRET")
	return cfg, nil
}
