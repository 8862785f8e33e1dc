package configuration

import (
	"github.com/adampresley/configinator"
	"github.com/limbachsamaj/communitysite/pkg/models"
)

const (
	MediaProviderCloudinary = "cloudinary"
	MediaProviderS3         = "s3"
)

type Config struct {
	AssetPrefix         string `flag:"assetprefix" env:"CLOUDINARY_ASSET_PREFIX" default:"" description:"Folder under which every album folder lives"`
	AwsAccessKeyId      string `flag:"awsaccesskeyid" env:"AWS_ACCESS_KEY_ID" default:"" description:"AWS access key ID"`
	AwsBucket           string `flag:"awsbucket" env:"AWS_BUCKET" default:"" description:"S3 bucket holding the gallery when the media provider is s3"`
	AwsEndpointUrl      string `flag:"awsep" env:"AWS_ENDPOINT_URL" default:"" description:"AWS endpoint URL"`
	AwsRegion           string `flag:"awsregion" env:"AWS_REGION" default:"us-east-1" description:"AWS region"`
	AwsSecretAccessKey  string `flag:"awssecretaccesskey" env:"AWS_SECRET_ACCESS_KEY" default:"" description:"AWS secret access key"`
	CacheTTLSeconds     int    `flag:"cachettl" env:"CACHE_TTL_SECONDS" default:"300" description:"Freshness window for album counts and image listings"`
	CloudinaryApiKey    string `flag:"cloudinarykey" env:"CLOUDINARY_API_KEY" default:"" description:"Cloudinary API key"`
	CloudinaryApiSecret string `flag:"cloudinarysecret" env:"CLOUDINARY_API_SECRET" default:"" description:"Cloudinary API secret"`
	CloudinaryBaseURL   string `flag:"cloudinaryurl" env:"CLOUDINARY_BASE_URL" default:"https://api.cloudinary.com/v1_1" description:"Cloudinary Admin API base URL"`
	CloudinaryCloudName string `flag:"cloudinarycloud" env:"CLOUDINARY_CLOUD_NAME" default:"" description:"Cloudinary cloud name"`
	ContactEmail        string `flag:"contactemail" env:"CONTACT_EMAIL" default:"" description:"Mailbox receiving contact form mail when sending through the email API"`
	CountWarmMinutes    int    `flag:"countwarm" env:"COUNT_WARM_MINUTES" default:"4" description:"How often album counts are refreshed in the background. 0 disables"`
	EmailApiKey         string `flag:"emailapikey" env:"EMAIL_API_KEY" default:"" description:"API key for sending emails through Resend"`
	Host                string `flag:"host" env:"HOST" default:"localhost:8080" description:"The address and port to bind the HTTP server to"`
	HttpTimeoutSeconds  int    `flag:"httptimeout" env:"HTTP_TIMEOUT_SECONDS" default:"15" description:"Timeout for calls to the media store"`
	LogLevel            string `flag:"loglevel" env:"LOG_LEVEL" default:"info" description:"The log level to use. Valid values are 'debug', 'info', 'warn', and 'error'"`
	MaxCountWorkers     int    `flag:"mcw" env:"MAX_COUNT_WORKERS" default:"8" description:"Maximum number of concurrent album count requests"`
	MediaProvider       string `flag:"mediaprovider" env:"MEDIA_PROVIDER" default:"cloudinary" description:"Where gallery media lives. Valid values are 'cloudinary' and 's3'"`
	SiteName            string `flag:"sitename" env:"SITE_NAME" default:"Limbach Samaj" description:"Name used in page titles and emails"`
	SmtpHost            string `flag:"smtphost" env:"SMTP_HOST" default:"smtp.gmail.com" description:"SMTP relay host"`
	SmtpPassword        string `flag:"smtppassword" env:"SMTP_PASSWORD" default:"" description:"SMTP relay password"`
	SmtpPort            int    `flag:"smtpport" env:"SMTP_PORT" default:"587" description:"SMTP relay port"`
	SmtpUsername        string `flag:"smtpusername" env:"SMTP_USERNAME" default:"" description:"SMTP relay username. Contact mail is sent from and to this account"`
}

func LoadConfig() Config {
	config := Config{}
	configinator.Behold(&config)
	return config
}

/*
ValidateGallery reports the settings the configured media provider needs
but does not have.
*/
func (c Config) ValidateGallery() error {
	missing := []string{}

	require := func(name, value string) {
		if value == "" {
			missing = append(missing, name)
		}
	}

	require("CLOUDINARY_ASSET_PREFIX", c.AssetPrefix)

	switch c.MediaProvider {
	case MediaProviderS3:
		require("AWS_BUCKET", c.AwsBucket)
		require("AWS_ACCESS_KEY_ID", c.AwsAccessKeyId)
		require("AWS_SECRET_ACCESS_KEY", c.AwsSecretAccessKey)

	case MediaProviderCloudinary, "":
		require("CLOUDINARY_CLOUD_NAME", c.CloudinaryCloudName)
		require("CLOUDINARY_API_KEY", c.CloudinaryApiKey)
		require("CLOUDINARY_API_SECRET", c.CloudinaryApiSecret)

	default:
		missing = append(missing, "MEDIA_PROVIDER (unknown value '"+c.MediaProvider+"')")
	}

	if len(missing) > 0 {
		return &models.ConfigurationError{Component: "gallery", Missing: missing}
	}

	return nil
}

func (c Config) ValidateMail() error {
	if c.SmtpUsername != "" && c.SmtpPassword != "" {
		return nil
	}

	if c.EmailApiKey != "" && c.ContactEmail != "" {
		return nil
	}

	return &models.ConfigurationError{
		Component: "mail",
		Missing:   []string{"SMTP_USERNAME", "SMTP_PASSWORD"},
	}
}

// UseSMTP is true unless only email API settings are present.
func (c Config) UseSMTP() bool {
	return c.SmtpUsername != "" || c.EmailApiKey == ""
}
