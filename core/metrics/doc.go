// Package metrics defines the events emitted by the prediction service, the
// artifact store and the trainer. Sinks such as PromSink and InfluxSink in
// infra/metrics record them and can be combined with NewMultiSink. Optional
// capabilities are expressed as separate recorder interfaces.
package metrics
