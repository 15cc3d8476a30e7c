package main

import (
	"rmpscrape/cmd/rmp-cli/commands"
	"rmpscrape/lib/serviceutil"
	"rmpscrape/lib/telemetry"
)

func main() {
	ctx := serviceutil.SignalContext()

	telemetry.SetupFromEnv(ctx, "rmp-cli")
	telemetry.InitSlog(true)
	telemetry.InstrumentPerfStats(ctx)

	commands.ExecuteContext(ctx)
}
