package app

// TxResult is returned for every successfully delivered operation.
type TxResult struct {
	Data []byte
	Log  string
	// Changed lists the store keys written by the operation itself.
	Changed []string
	// Effects holds the outcome of every effect, in execution order.
	Effects []EffectResult
}

// EffectResult describes a single executed effect. A failed effect has Err
// set; the operation that produced it stays applied.
type EffectResult struct {
	Description string
	Err         error
}

// Failed returns only the effects that could not be executed.
func (r *TxResult) Failed() []EffectResult {
	var failed []EffectResult
	for _, e := range r.Effects {
		if e.Err != nil {
			failed = append(failed, e)
		}
	}
	return failed
}
