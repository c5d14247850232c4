package strava

// Config holds configuration for the Strava API client.
type Config struct {
	// AccessToken is the OAuth bearer token used for all requests.
	AccessToken string `mapstructure:"access_token" default:""`
	// BaseURL is the API root.
	BaseURL string `mapstructure:"base_url" default:"https://www.strava.com/api/v3"`
	// PageSize is the number of activities requested per page.
	PageSize int `mapstructure:"page_size" default:"100"`
}
