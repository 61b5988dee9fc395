// Package app wires the pipeline together for the dpwh binary.
//
// # Initialization Flow
//
//	1. Load configuration from defaults, the YAML file, .env and the environment
//	2. Apply command-line overrides for the input file and output directory
//	3. Initialize logging and OpenTelemetry
//	4. Build the pipeline runner
//
// # Usage
//
//	a, err := app.NewApplication(app.Options{ConfigFile: "dpwh.yaml"})
//	if err != nil {
//	    return err
//	}
//	return a.Run(ctx, a.Menu(os.Stdin, os.Stdout).Run)
//
// # Shutdown
//
// Run cancels its context on SIGINT or SIGTERM. Shutdown then writes the
// metrics textfile, flushes pending spans and closes the trace and log files.
// Errors are returned to the caller; the package never calls os.Exit.
package app
