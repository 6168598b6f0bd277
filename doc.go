// Package resampler provides 5-point Lagrange sample-rate conversion in pure Go.
//
// The converter keeps a five-sample history and a fractional phase between
// calls, so a stream can be fed in chunks of any size and the ratio may
// change from call to call. It reads input through a [Window], which can
// either run out (yielding silence afterwards) or loop back over a fixed
// period. Looping windows make the converter suitable for wavetables and
// circular capture buffers that are read in place.
//
// # Features
//
//   - Fourth-order Lagrange interpolation over nodes -2..2
//   - Generic over float32 and float64
//   - Mix-in processing with gain via [Interpolator.ProcessAdding]
//   - Linear and circular input windows with wrap-aware bookkeeping
//   - SIMD kernel evaluation via github.com/tphakala/simd
//   - Streaming multi-channel [Resampler] with optional parallel channels
//
// # Quick Start
//
// For simple one-shot resampling:
//
//	output, err := resampler.ResampleMono(input, 44100, 48000)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// For streaming resampling with a reusable resampler:
//
//	r, err := resampler.New[float64](&resampler.Config{
//	    InputRate:  44100,
//	    OutputRate: 48000,
//	    Channels:   2,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	for chunk := range audioChunks {
//	    output, err := r.ProcessMulti(chunk)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    writeOutput(output)
//	}
//
//	final, _ := r.FlushMulti()
//
// # Reading a Loop
//
// An [Interpolator] can read directly from caller-owned memory:
//
//	w, _ := resampler.CircularWindow(table, 0)
//	var interp resampler.Interpolator[float32]
//	moved, _ := interp.Process(pitch, &w, out)
//
// moved is how far the read position advanced inside the loop, so the
// caller can continue from (start+moved) mod len(table) on the next call.
//
// # Latency
//
// The kernel is centered two samples behind the newest input, so output
// lags input by [Resampler.GetLatency] input samples. [Resampler.Flush]
// feeds silence to drain it.
//
// # Thread Safety
//
// An [Interpolator] or [Resampler] serves one stream and must not be used
// from several goroutines at once. [Resampler.ProcessMulti] may itself
// run channels concurrently when [Config.EnableParallel] is set.
package resampler
