package config

// RocketMQConfig 消息队列配置信息
type RocketMQConfig struct {
	NameServer []string `json:"name_server" yaml:"name_server"`
	Producer   struct {
		Group string `json:"group" yaml:"group"`
	} `json:"producer" yaml:"producer"`
	Consumer struct {
		Group string `json:"group" yaml:"group"`
	} `json:"consumer" yaml:"consumer"`
}

func ProvideRocketMQConfig(c *Config) *RocketMQConfig {
	return c.RocketMQ
}
