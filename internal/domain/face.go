package domain

import (
	"time"

	"gorm.io/datatypes"
)

// FaceRectangle is a detected face bounding box.
type FaceRectangle struct {
	X             int     `json:"x"`
	Y             int     `json:"y"`
	Width         int     `json:"width"`
	Height        int     `json:"height"`
	Confidence    float32 `json:"confidence"`
	LivenessScore float32 `json:"livenessScore"`
}

// FaceDetectionResult carries the outcome of a detection run performed by
// a capture device. Detection itself happens elsewhere.
type FaceDetectionResult struct {
	Success           bool            `json:"success"`
	ErrorMessage      string          `json:"errorMessage,omitempty"`
	Faces             []FaceRectangle `json:"faces,omitempty"`
	ProcessingTimeMs  int             `json:"processingTimeMs"`
	ImageQualityScore float32         `json:"imageQualityScore"`
}

func FailedDetection(message string) FaceDetectionResult {
	return FaceDetectionResult{Success: false, ErrorMessage: message}
}

func (r FaceDetectionResult) HasFaces() bool {
	return len(r.Faces) > 0
}

func (r FaceDetectionResult) FaceCount() int {
	return len(r.Faces)
}

// FaceRecognitionLog is a persisted FaceDetectionResult.
type FaceRecognitionLog struct {
	ID                uint                                `json:"id" gorm:"primaryKey"`
	OrganizationID    uint                                `json:"organizationId" gorm:"not null;index"`
	Organization      *Organization                       `json:"-" gorm:"foreignKey:OrganizationID;constraint:OnDelete:CASCADE"`
	Success           bool                                `json:"success"`
	ErrorMessage      string                              `json:"errorMessage,omitempty" gorm:"type:text"`
	Faces             datatypes.JSONType[[]FaceRectangle] `json:"faces"`
	FaceCount         int                                 `json:"faceCount"`
	ProcessingTimeMs  int                                 `json:"processingTimeMs"`
	ImageQualityScore float32                             `json:"imageQualityScore"`
	DeviceInfo        string                              `json:"deviceInfo,omitempty" gorm:"type:text"`
	CreatedAt         time.Time                           `json:"createdAt"`
}

func NewFaceRecognitionLog(orgID uint, result FaceDetectionResult, deviceInfo string) *FaceRecognitionLog {
	faces := result.Faces
	if faces == nil {
		faces = []FaceRectangle{}
	}
	return &FaceRecognitionLog{
		OrganizationID:    orgID,
		Success:           result.Success,
		ErrorMessage:      result.ErrorMessage,
		Faces:             datatypes.NewJSONType(faces),
		FaceCount:         len(faces),
		ProcessingTimeMs:  result.ProcessingTimeMs,
		ImageQualityScore: result.ImageQualityScore,
		DeviceInfo:        deviceInfo,
		CreatedAt:         time.Now(),
	}
}

// Result converts the stored row back into its transport form.
func (l *FaceRecognitionLog) Result() FaceDetectionResult {
	return FaceDetectionResult{
		Success:           l.Success,
		ErrorMessage:      l.ErrorMessage,
		Faces:             l.Faces.Data(),
		ProcessingTimeMs:  l.ProcessingTimeMs,
		ImageQualityScore: l.ImageQualityScore,
	}
}
