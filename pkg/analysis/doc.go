// Package analysis implements the two use cases of magicer: classifying an uploaded body and
// classifying a file inside the sandbox.
//
// Service.AnalyzeContent ingests the body through an ingest.Ingester, hands the resulting bytes
// to a classifier.Classifier and releases the payload before returning, whatever the outcome.
// Service.AnalyzePath resolves a relative token through a sandbox.Resolver and classifies the
// resolved file in place.
//
// Every failure is returned as *Error carrying one of a closed set of Kind values. The HTTP layer
// switches on Kind and never shows the wrapped error to clients.
package analysis
