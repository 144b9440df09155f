package models

import (
	"github.com/smazurov/lightnode/internal/lights"
	"github.com/smazurov/lightnode/internal/logging"
)

// Health check models
type HealthData struct {
	Status  string `json:"status" example:"ok" doc:"Service status"`
	Message string `json:"message" example:"profile xiaomi-breath, driver breath" doc:"Active device profile and LED driver"`
}

type HealthResponse struct {
	Body HealthData
}

// Version models
type VersionData struct {
	Version   string `json:"version" example:"dev" doc:"Application version"`
	GitCommit string `json:"git_commit" example:"abc1234" doc:"Git commit SHA"`
	BuildDate string `json:"build_date" example:"2024-12-15 14:30" doc:"Build timestamp"`
	GoVersion string `json:"go_version" example:"go1.21.0" doc:"Go compiler version"`
	Compiler  string `json:"compiler" example:"gc" doc:"Compiler used"`
	Platform  string `json:"platform" example:"linux/arm64" doc:"Platform"`
}

type VersionResponse struct {
	Body VersionData
}

// Light models
type LightsData struct {
	Lights  []lights.HwLight `json:"lights" doc:"Supported lights in order of importance"`
	Profile string           `json:"profile" example:"xiaomi-breath" doc:"Active device profile"`
	Driver  string           `json:"driver" example:"breath+rgb" doc:"Notification LED driver"`
}

type LightsResponse struct {
	Body LightsData
}

type LightStateData struct {
	Color          uint32 `json:"color" example:"4278255360" doc:"Packed 0xAARRGGBB color"`
	FlashMode      string `json:"flash_mode,omitempty" enum:"NONE,TIMED,HARDWARE" default:"NONE" doc:"Flash mode"`
	FlashOnMs      int    `json:"flash_on_ms,omitempty" minimum:"0" example:"1000" doc:"Flash on duration in milliseconds"`
	FlashOffMs     int    `json:"flash_off_ms,omitempty" minimum:"0" example:"3000" doc:"Flash off duration in milliseconds"`
	BrightnessMode string `json:"brightness_mode,omitempty" enum:"USER,SENSOR,LOW_PERSISTENCE" default:"USER" doc:"Brightness mode, accepted and ignored"`
}

type LightStateRequest struct {
	ID   int `path:"id" example:"4" doc:"Light identifier"`
	Body LightStateData
}

// Battery models
type BatteryData struct {
	State string `json:"state" example:"charging" enum:"unknown,low,free,charging,full" doc:"Classified battery state"`
}

type BatteryResponse struct {
	Body BatteryData
}

// Log models
type LogsData struct {
	Entries []logging.LogEntry `json:"entries" doc:"Most recent log entries, oldest first"`
	Count   int                `json:"count" example:"42" doc:"Number of entries"`
}

type LogsResponse struct {
	Body LogsData
}

type LogsRequest struct {
	Module string `query:"module" example:"sysfs" doc:"Only return entries from this module"`
	Level  string `query:"level" enum:"debug,info,warn,error" doc:"Only return entries at or above this level"`
	Limit  int    `query:"limit" default:"200" minimum:"1" maximum:"1000" doc:"Maximum number of entries, newest kept"`
}
