package game

// LogSummary logs the current population and the average turn cost.
func (g *Game) LogSummary() {
	pop := g.population()
	perf := g.perfCollector.Stats()
	slowest, slowestPct := perf.Slowest(g.systemReg.IDs())

	g.log.Info("world state",
		"turn", g.Turn(),
		"entities", pop.Entities,
		"detectables", pop.Detectables,
		"sensors", pop.Sensors,
		"ghosts", pop.Ghosts,
		"avg_turn", perf.AvgTurnDuration,
		"slowest_system", g.systemReg.GetName(slowest),
		"slowest_pct", slowestPct,
		"paused", g.paused,
	)
}
