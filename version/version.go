package version

type Version struct {
	Version string `json:"version"`
}

// VERSION is set via -ldflags at release build time.
var VERSION string

func Get() (Version, error) {
	return Version{Version: VERSION}, nil
}
