// Parses flags and dispatches the avocado subcommands.
//
// The CLI accepts the following global flags:
//
//	-q, --quiet            Suppress informational output.
//	-v, --verbose          Enable verbose output.
//	-d, --debug            Enable debug output.
//	-t, --target           Override the build target.
//	-C, --config           Path to the project configuration file.
//	    --container-tool   Container tool binary (docker or podman).
//	    --container-arg    Extra argument for every container invocation.
//
// The output flags map onto a single console verbosity level; the most
// talkative one wins. The build target resolves from the --target flag,
// then the AVOCADO_TARGET environment variable, then the configuration's
// single runtime target; container-backed commands fail when none of the
// three yields one.
package cli
