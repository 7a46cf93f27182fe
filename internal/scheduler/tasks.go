package scheduler

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

// TaskAppointmentReminder delivers a reminder shortly before an appointment.
const TaskAppointmentReminder = "appointments.reminder"

// TaskBehaviorSweep re-evaluates every client behavior profile.
const TaskBehaviorSweep = "behavior.profiles.sweep"

type AppointmentReminderPayload struct {
	AppointmentID string `json:"appointmentId"`
}

func NewAppointmentReminderTask(payload AppointmentReminderPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskAppointmentReminder, data), nil
}

func ParseAppointmentReminderPayload(task *asynq.Task) (AppointmentReminderPayload, error) {
	var payload AppointmentReminderPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return AppointmentReminderPayload{}, err
	}
	return payload, nil
}

func NewBehaviorSweepTask() *asynq.Task {
	return asynq.NewTask(TaskBehaviorSweep, nil)
}
