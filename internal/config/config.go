package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type Logger struct {
	Level string `yaml:"level"`
}

type Global struct {
	Logger Logger `yaml:"logger"`
}

type CSV struct {
	Path string `yaml:"path"`
}

type SQL struct {
	ConnectionString string `yaml:"connection_string"`
	Schema           string `yaml:"schema"`
	Table            string `yaml:"table"`
	Query            string `yaml:"query"`
}

type Mongo struct {
	URI string `yaml:"uri"`
}

type Source struct {
	Type  string `yaml:"type"`
	CSV   CSV    `yaml:"csv"`
	SQL   SQL    `yaml:"sql"`
	Mongo Mongo  `yaml:"mongo"`
}

type Differ struct {
	Type string `yaml:"type"`
}

type Parquet struct {
	Path string `yaml:"path"`
}

type Kafka struct {
	Brokers string `yaml:"brokers"`
	Topic   string `yaml:"topic"`
}

type Writer struct {
	Type    string  `yaml:"type"`
	Parquet Parquet `yaml:"parquet"`
	Kafka   Kafka   `yaml:"kafka"`
}

type Local struct {
	Path string `yaml:"path"`
}

type S3 struct {
	Bucket         string `yaml:"bucket"`
	Region         string `yaml:"region"`
	Prefix         string `yaml:"prefix"`
	Endpoint       string `yaml:"endpoint"`
	ForcePathStyle bool   `yaml:"force_path_style"`
}

type Repository struct {
	Type  string `yaml:"type"`
	Local Local  `yaml:"local"`
	S3    S3     `yaml:"s3"`
}

type Reconciler struct {
	Name       string     `yaml:"name"`
	Source     Source     `yaml:"source"`
	Target     Source     `yaml:"target"`
	Differ     Differ     `yaml:"differ"`
	Writer     Writer     `yaml:"writer"`
	Repository Repository `yaml:"repository"`
}

type Config struct {
	Global     Global     `yaml:"global"`
	Reconciler Reconciler `yaml:"reconciler"`
}

func NewFromFile(fpath string) (*Config, error) {
	bs, err := os.ReadFile(fpath)
	if err != nil {
		return nil, err
	}

	var config Config
	if err := yaml.Unmarshal(bs, &config); err != nil {
		return nil, err
	}

	return &config, nil
}
