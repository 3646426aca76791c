package app

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"

	gymhandler "github.com/aanand-mishra/gym-api/internal/http/handlers/gym"
	studenthandler "github.com/aanand-mishra/gym-api/internal/http/handlers/student"
	workouthandler "github.com/aanand-mishra/gym-api/internal/http/handlers/workout"
	"github.com/aanand-mishra/gym-api/internal/metrics"
	"github.com/aanand-mishra/gym-api/internal/utils/response"
)

// Pinger reports whether the database is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Services groups what the routes need.
type Services struct {
	Students studenthandler.Service
	Workouts workouthandler.Service
	Gyms     gymhandler.Locator
	DB       Pinger
}

// RegisterRoutes mounts every endpoint on r.
//
//	POST   /add_aluno           create a student
//	GET    /get_alunos          list students
//	GET    /get_aluno           get one student (?cpf=)
//	DELETE /del_aluno           delete a student (?cpf=)
//	PUT    /update_aluno        update a student
//	PUT    /contrata_plano      buy plan months
//	GET    /monta_treino        workout plan (?cpf=&grupo=)
//	GET    /listatreinos        all workouts
//	POST   /add_treino          add an exercise
//	DELETE /deleta_treino       delete a workout (?id=)
//	GET    /consulta_academias  gyms near a postal code (?cep=)
func RegisterRoutes(r chi.Router, log *slog.Logger, svc Services) {
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Recoverer,
		metrics.Middleware,
	)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		response.WriteJSON(w, r, http.StatusOK, response.Message(serviceName+" "+Version))
	})

	r.Post("/add_aluno", studenthandler.New(log, svc.Students))
	r.Get("/get_alunos", studenthandler.GetList(log, svc.Students))
	r.Get("/get_aluno", studenthandler.GetByTaxpayerID(log, svc.Students))
	r.Delete("/del_aluno", studenthandler.Delete(log, svc.Students))
	r.Put("/update_aluno", studenthandler.Update(log, svc.Students))
	r.Put("/contrata_plano", studenthandler.RenewPlan(log, svc.Students))

	r.Get("/monta_treino", workouthandler.FetchPlan(log, svc.Workouts))
	r.Get("/listatreinos", workouthandler.ListWorkouts(log, svc.Workouts))
	r.Post("/add_treino", workouthandler.AddExercise(log, svc.Workouts))
	r.Delete("/deleta_treino", workouthandler.DeleteWorkout(log, svc.Workouts))

	r.Get("/consulta_academias", gymhandler.FindNearby(log, svc.Gyms))

	r.Get("/healthz", healthz(svc.DB))
	r.Handle("/metrics", metrics.Handler())
}

func healthz(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 800*time.Millisecond)
		defer cancel()
		t0 := time.Now()
		if err := db.Ping(ctx); err != nil {
			http.Error(w, "db not ok: "+err.Error(), http.StatusServiceUnavailable)
			return
		}
		metrics.ObserveDBPing(time.Since(t0))
		_, _ = w.Write([]byte("ok"))
	}
}
