package platform

// Platform identifies the operating system the snapshot was captured on.
type Platform string

const (
	Android Platform = "android"
	IOS     Platform = "ios"
	Linux   Platform = "linux"
	MacOS   Platform = "macos"
	Windows Platform = "windows"
)
