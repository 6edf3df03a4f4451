// Provides well-known host-side paths and permission modes.
//
// Project-relative paths (the build-state directory, the default config
// file name) live next to the project being built. The user-level defaults
// file follows XDG conventions on Linux and platform-native conventions on
// macOS and Windows.
package paths
