package models

import (
	"time"

	"gorm.io/datatypes"
)

// InteractionLog records one processed voice interaction for audit and review.
type InteractionLog struct {
	ID            string         `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	ProcedureType string         `gorm:"column:procedure_type;type:text;index" json:"procedure_type"`
	Transcript    string         `gorm:"column:transcript;type:text" json:"transcript"`
	Response      string         `gorm:"column:response;type:text" json:"response"`
	CommandType   string         `gorm:"column:command_type;type:text" json:"command_type"`
	AlertLevel    string         `gorm:"column:alert_level;type:text" json:"alert_level"`
	Commands      datatypes.JSON `gorm:"column:commands;type:jsonb" json:"commands"` // serialized ParsedCommand
	Timestamp     time.Time      `gorm:"column:timestamp;type:timestamptz;index" json:"timestamp"`
}

func (InteractionLog) TableName() string { return "interaction_logs" }
