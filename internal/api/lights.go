package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/smazurov/lightnode/internal/api/models"
	"github.com/smazurov/lightnode/internal/lights"
)

// registerLightRoutes registers the light and battery endpoints.
func (s *Server) registerLightRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "list-lights",
		Method:      http.MethodGet,
		Path:        "/api/lights",
		Summary:     "List Lights",
		Description: "List the lights this device supports, in order of importance",
		Tags:        []string{"lights"},
		Security:    withAuth(),
		Errors:      []int{401},
	}, func(_ context.Context, _ *struct{}) (*models.LightsResponse, error) {
		return &models.LightsResponse{Body: s.lightsData()}, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID:   "set-light-state",
		Method:        http.MethodPut,
		Path:          "/api/lights/{id}/state",
		Summary:       "Set Light State",
		Description:   "Apply a color and flash pattern to a light. Hardware write failures are logged, not reported.",
		Tags:          []string{"lights"},
		Security:      withAuth(),
		DefaultStatus: http.StatusNoContent,
		Errors:        []int{401, 422, 501},
	}, func(_ context.Context, input *models.LightStateRequest) (*struct{}, error) {
		state, err := toLightState(input.Body)
		if err != nil {
			return nil, huma.Error422UnprocessableEntity("Invalid light state", err)
		}

		if err := s.lights.SetLightState(input.ID, state); err != nil {
			if errors.Is(err, lights.ErrUnsupportedOperation) {
				return nil, huma.Error501NotImplemented("Light not supported", err)
			}
			return nil, huma.Error500InternalServerError("Failed to set light state", err)
		}
		return nil, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "get-battery-state",
		Method:      http.MethodGet,
		Path:        "/api/battery",
		Summary:     "Battery State",
		Description: "Classify the power supply the way the notification light does",
		Tags:        []string{"battery"},
		Security:    withAuth(),
		Errors:      []int{401},
	}, func(_ context.Context, _ *struct{}) (*models.BatteryResponse, error) {
		return &models.BatteryResponse{
			Body: models.BatteryData{
				State: s.lights.BatteryState().String(),
			},
		}, nil
	})
}

func (s *Server) lightsData() models.LightsData {
	return models.LightsData{
		Lights:  s.lights.GetLights(),
		Profile: s.options.ProfileName,
		Driver:  s.options.DriverName,
	}
}

func toLightState(data models.LightStateData) (lights.HwLightState, error) {
	state := lights.HwLightState{
		Color:      data.Color,
		FlashOnMs:  data.FlashOnMs,
		FlashOffMs: data.FlashOffMs,
	}

	if data.FlashMode != "" {
		mode, err := lights.ParseFlashMode(data.FlashMode)
		if err != nil {
			return state, err
		}
		state.FlashMode = mode
	}

	if data.BrightnessMode != "" {
		mode, err := lights.ParseBrightnessMode(data.BrightnessMode)
		if err != nil {
			return state, err
		}
		state.BrightnessMode = mode
	}

	return state, state.Validate()
}
