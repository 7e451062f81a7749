// Package classify decides whether a video is short-form.
//
// No single signal is reliably present in collector data, so the classifier
// applies an ordered fallback: an explicit type hint, then the duration
// against a configured cutoff, then #shorts-style text hints, and finally the
// long-form default. The first applicable signal wins.
//
// The cutoff is fixed per Classifier. Two cutoffs exist in practice (a strict
// one near a minute for general classification and a lenient three-minute one
// for the report path); callers pick one per pipeline stage through
// configuration and must not mix them within a run.
package classify
