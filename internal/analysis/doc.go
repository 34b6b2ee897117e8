// Package analysis provides post-processing for recorded fluid runs.
//
//   - [PowerSpectrum]: magnitude spectrum of a sampled series (go-dsp FFT)
//   - [DominantFrequency]: strongest non-DC frequency, e.g. tank sloshing
//   - [FrontPosition]: rightmost particle, the surge front of a dam break
//   - [HeightProfile]: particle count per horizontal band
//
// # Sloshing
//
// The kinetic energy of a sloshing tank oscillates at twice the sloshing
// frequency:
//
//	ke := result.Column(func(s sim.Sample) float64 { return s.KineticEnergy })
//	f, _ := analysis.DominantFrequency(ke, sampleDt)
package analysis
