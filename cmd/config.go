package cmd

type Config struct {
	HTTPPort            string
	DBHost              string
	DBPort              string
	DBUser              string
	DBPassword          string
	DBName              string
	DBSslMode           string
	PlatformAPIBaseURL  string
	PlatformAPIKey      string
	DeliveryPageBaseURL string
	QRArtifactDir       string
}
