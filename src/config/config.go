package config

import (
	"fmt"
	"os"
)

func GetDSN() string {
	DATABASE_HOST := os.Getenv("DATABASE_HOST")
	DATABASE_PORT := os.Getenv("DATABASE_PORT")
	DATABASE_SSLMODE := os.Getenv("DATABASE_SSLMODE")
	DATABASE_TIMEZONE := os.Getenv("DATABASE_TIMEZONE")
	DATABASE_USER := os.Getenv("DATABASE_USER")
	DATABASE_PASSWORD := os.Getenv("DATABASE_PASSWORD")
	DATABASE_NAME := os.Getenv("DATABASE_NAME")
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s", DATABASE_HOST, DATABASE_USER, DATABASE_PASSWORD, DATABASE_NAME, DATABASE_PORT, DATABASE_SSLMODE, DATABASE_TIMEZONE)
	return dsn
}

const DATE_PARSE_FORMAT = "2006-01-02"

var API_ENV = os.Getenv("API_ENV")
var GAPI_API_KEY = os.Getenv("GAPI_API_KEY")

func RazorpayKeyID() string {
	return os.Getenv("RAZORPAY_KEY_ID")
}

func RazorpayKeySecret() string {
	return os.Getenv("RAZORPAY_KEY_SECRET")
}

func TomTomAPIKey() string {
	return os.Getenv("TOMTOM_API_KEY")
}

func AIGatewayURL() string {
	url := os.Getenv("AI_GATEWAY_URL")
	if url == "" {
		url = "https://ai.gateway.lovable.dev/v1/chat/completions"
	}
	return url
}

func AIGatewayKey() string {
	return os.Getenv("AI_GATEWAY_API_KEY")
}

func AIModel() string {
	model := os.Getenv("AI_MODEL")
	if model == "" {
		model = "google/gemini-2.5-flash"
	}
	return model
}
