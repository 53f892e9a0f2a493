package board

import "github.com/Lolfaceftw/USART/chip"

/*
 * Clock configuration after bring-up:
 * -- fast generator: 24 MHz (DFLL48M with /2 divider), main clock
 * -- slow generator: 4 MHz (OSC16M), debounce and timer clocking
 *
 * The chip resets in PL0, which favours energy efficiency over performance;
 * the target frequency needs PL2.
 */

// raisePerfLevel elevates the performance level, powers and calibrates the
// 48 MHz DFLL, then switches the generators over. Every step polls a live
// hardware ready condition before the next dependent write; there is no error
// return, and a condition that never holds hangs here on purpose.
func (c *Core) raisePerfLevel() {
	pm := c.ch.PM
	pm.AckLevelFlag()
	pm.SetLevel(chip.PL2)
	c.wait("pm.levelready", pm.LevelReady)
	pm.AckLevelFlag()

	// Flash wait states for the higher clock, then power the PLL regulator.
	c.ch.NVM.SetFlashWaitStates(2)
	c.ch.SUPC.EnablePLLRegulator()
	c.wait("supc.pllrdy", c.ch.SUPC.PLLRegulatorReady)

	// DFLL48M: ONDEMAND off first, calibration as a single write, then
	// enable. The oscillator must re-report ready between each step.
	osc := c.ch.OSC
	osc.DisableDFLLOnDemand()
	c.wait("osc.dfllrdy", osc.DFLLReady)
	osc.LoadDFLLCalibration(c.ch.NVM.DFLLCalibration())
	c.wait("osc.dfllrdy", osc.DFLLReady)
	osc.EnableDFLL()
	c.wait("osc.dfllrdy", osc.DFLLReady)

	// The slow generator is configured before anything references it for a
	// peripheral clock gate; the fast generator only switches to the DFLL
	// once the oscillator has reported ready above.
	g := c.ch.GCLK
	g.ConfigureGenerator(chip.GenSlow, chip.SourceOSC16M, 1)
	c.wait("gclk.sync-slow", func() bool { return !g.GeneratorSyncing(chip.GenSlow) })

	g.ConfigureGenerator(chip.GenFast, chip.SourceDFLL48M, 2)
	c.wait("gclk.sync-fast", func() bool { return !g.GeneratorSyncing(chip.GenFast) })
}
