package enrollment

import "summercamp/models"

// Step names one effect of a completed payment.
type Step string

const (
	StepPayment Step = "payment"
	StepSeats   Step = "seats"
	StepPending Step = "pending"
)

type StepResult struct {
	Step  Step   `json:"step"`
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// Outcome summarises what Complete did.
type Outcome struct {
	Payment         *models.Payment `json:"payment,omitempty"`
	PaymentRecorded bool            `json:"paymentRecorded"`
	SeatsUpdated    bool            `json:"seatsUpdated"`
	PendingRemoved  bool            `json:"pendingRemoved"`
	EnrolledCourses []uint          `json:"enrolledCourses"`
	RemovedEntries  int64           `json:"removedEntries"`
	Steps           []StepResult    `json:"steps"`
}

func (o *Outcome) record(step Step, err error) {
	result := StepResult{Step: step, OK: err == nil}
	if err != nil {
		result.Error = err.Error()
	}
	o.Steps = append(o.Steps, result)
}

// Failed lists the steps that did not succeed.
func (o *Outcome) Failed() []Step {
	var failed []Step
	for _, s := range o.Steps {
		if !s.OK {
			failed = append(failed, s.Step)
		}
	}
	return failed
}
