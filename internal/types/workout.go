package types

// MuscleGroups lists the groups the workout service knows about.
var MuscleGroups = []string{"peito", "costas", "biceps", "triceps", "trapezio", "ombro", "perna"}

// WorkoutPlanQuery is GET /monta_treino?cpf=&grupo=.
type WorkoutPlanQuery struct {
	TaxpayerID int64  `json:"cpf"   validate:"required,gt=0"`
	Group      string `json:"grupo" validate:"required,muscle_group"`
}

// AddExerciseRequest is the body of POST /add_treino.
type AddExerciseRequest struct {
	Group    string `json:"grupo"     validate:"required,muscle_group"`
	Exercise string `json:"exercicio" validate:"required"`
}

// Exercise is what the workout service expects on POST /add.
type Exercise struct {
	MuscleGroup string `json:"grupo_muscular"`
	Name        string `json:"exercicio"`
}
