package configs

import (
	"log"
	"os"
	"strconv"
	"sync"
)

// AppConfig holds the application configuration.
// It's populated once by LoadConfig.
var AppConfig Configuration
var once sync.Once

// Configuration defines the structure for application settings.
type Configuration struct {
	JWTSecret                 string
	ServerPort                string
	QRTokenSecret             string
	FaceVerificationThreshold int
}

const (
	defaultJWTSecret     = "logator"           // Default JWT secret, used if env var is not set.
	envJWTSecretKey      = "JWT_SECRET_KEY"    // Environment variable name for the JWT secret.
	defaultServerPort    = "8081"              // Default server port.
	envServerPortKey     = "SERVER_PORT"       // Environment variable name for the server port.
	defaultQRTokenSecret = "logator-qr-secret" // 默认二维码令牌密钥，仅供开发环境使用
	envQRTokenSecretKey  = "QR_TOKEN_SECRET"   // 二维码令牌密钥环境变量名

	// 人脸核验阈值：独立核验次数达到该值后，访客转为已核验状态
	defaultFaceVerificationThreshold = 5
	envFaceVerificationThresholdKey  = "FACE_VERIFICATION_THRESHOLD"
)

// LoadConfig loads configuration from environment variables or defaults.
// It should be called once at application startup.
func LoadConfig() {
	once.Do(func() {
		jwtSecret := os.Getenv(envJWTSecretKey)
		if jwtSecret == "" {
			jwtSecret = defaultJWTSecret
			log.Printf("警告: %s 环境变量未设置。正在使用默认的JWT密钥。请在生产环境中设置此变量以保证安全。", envJWTSecretKey)
		}

		serverPort := os.Getenv(envServerPortKey)
		if serverPort == "" {
			serverPort = defaultServerPort
			log.Printf("信息: %s 环境变量未设置。正在使用默认端口 %s。", envServerPortKey, defaultServerPort)
		}

		qrSecret := os.Getenv(envQRTokenSecretKey)
		if qrSecret == "" {
			qrSecret = defaultQRTokenSecret
			log.Printf("警告: %s 环境变量未设置。正在使用默认的二维码令牌密钥。请在生产环境中设置此变量以保证安全。", envQRTokenSecretKey)
		}

		threshold := defaultFaceVerificationThreshold
		if v := os.Getenv(envFaceVerificationThresholdKey); v != "" {
			parsed, err := strconv.Atoi(v)
			if err != nil || parsed <= 0 {
				log.Printf("警告: %s 的值 %q 无效，使用默认阈值 %d。", envFaceVerificationThresholdKey, v, defaultFaceVerificationThreshold)
			} else {
				threshold = parsed
			}
		}

		AppConfig = Configuration{
			JWTSecret:                 jwtSecret,
			ServerPort:                serverPort,
			QRTokenSecret:             qrSecret,
			FaceVerificationThreshold: threshold,
		}

		log.Println("应用配置已加载。")
	})
}
