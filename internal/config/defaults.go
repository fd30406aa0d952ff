package config

// DefaultUserAgent is the desktop Chrome user agent presented to the catalog
const DefaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// DefaultCatalogURL is the class list search page
const DefaultCatalogURL = "https://catalog.apps.asu.edu/catalog/classes/classlist"

// DefaultTerm is the catalog term code searched when none is configured
const DefaultTerm = "2257"

// DefaultProfilePrefix names the temporary Chrome profile directories
const DefaultProfilePrefix = "chrome_user_data_"
