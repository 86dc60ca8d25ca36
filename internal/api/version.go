package api

// ServiceVersion identifies the backend build. Bump on observable behavior
// changes (ranking order, validation rules).
const ServiceVersion = "1.2.0"
