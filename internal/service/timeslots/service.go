package timeslots

import (
	"context"
	"errors"
	"fmt"

	"github.com/medzap/HMS-BookingService/internal/domain"
	"github.com/medzap/HMS-BookingService/internal/integrations/staffservice"
	"github.com/medzap/HMS-BookingService/internal/service/timeslots/models"
	"github.com/medzap/HMS-BookingService/pkg/types"
)

// Service управляет каталогом слотов и его привязками
// к больницам и врачам
type Service struct {
	slotRepo  TimeSlotRepository
	staff     StaffClient
	txManager TxManager
	log       Logger
}

func NewService(slotRepo TimeSlotRepository, staff StaffClient, txManager TxManager, log Logger) *Service {
	return &Service{
		slotRepo:  slotRepo,
		staff:     staff,
		txManager: txManager,
		log:       log,
	}
}

// AddTimes пополняет каталог слотов. Времена задаются явным списком
// либо сеткой From..To с шагом 30 минут. Уже существующие времена
// пропускаются; если новых нет - ErrNoNewSlots
func (s *Service) AddTimes(ctx context.Context, req models.AddTimesRequest) ([]models.TimeSlotResponse, error) {
	if !req.IsValid() {
		return nil, fmt.Errorf("%w: AddTimes - times list or from/to range is required", ErrInvalidInput)
	}

	requested, err := resolveTimes(req)
	if err != nil {
		return nil, err
	}

	existing, err := s.slotRepo.FindByTimes(ctx, requested)
	if err != nil {
		return nil, fmt.Errorf("%w: AddTimes - failed to find existing slots: %v", ErrInternal, err)
	}

	existingSet := make(map[types.TimeString]struct{}, len(existing))
	for _, slot := range existing {
		existingSet[slot.Time] = struct{}{}
	}

	newTimes := make([]types.TimeString, 0, len(requested))
	for _, t := range requested {
		if _, ok := existingSet[t]; !ok {
			newTimes = append(newTimes, t)
		}
	}

	if len(newTimes) == 0 {
		return nil, fmt.Errorf("%w: AddTimes - all %d requested times exist", ErrNoNewSlots, len(requested))
	}

	created, err := s.slotRepo.InsertMany(ctx, newTimes)
	if err != nil {
		return nil, fmt.Errorf("%w: AddTimes - failed to insert slots: %v", ErrInternal, err)
	}

	s.log.Info("timeslots.Service: AddTimes - created %d slots, skipped %d existing", len(created), len(existing))

	result := make([]models.TimeSlotResponse, 0, len(created))
	for _, slot := range created {
		result = append(result, models.NewTimeSlotResponse(slot))
	}

	return result, nil
}

// List возвращает активные слоты каталога с пагинацией
func (s *Service) List(ctx context.Context, page, limit int) ([]models.TimeSlotResponse, error) {
	if limit <= 0 {
		limit = domain.DefaultPageLimit
	}
	if limit > domain.MaxPageLimit {
		limit = domain.MaxPageLimit
	}
	if page <= 0 {
		page = 1
	}

	slots, err := s.slotRepo.ListActive(ctx, page, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: List - failed to list slots: %v", ErrInternal, err)
	}

	result := make([]models.TimeSlotResponse, 0, len(slots))
	for _, slot := range slots {
		result = append(result, models.NewTimeSlotResponse(slot))
	}

	return result, nil
}

// ConfigureHospitalSlots приводит набор слотов больницы к желаемому.
// Удаление слота, который активно использует хотя бы один врач больницы,
// запрещено. Применение diff выполняется в одной транзакции
func (s *Service) ConfigureHospitalSlots(ctx context.Context, hospitalID int64, req models.ConfigureSlotsRequest) (models.ConfigureSlotsResponse, error) {
	if hospitalID <= 0 {
		return models.ConfigureSlotsResponse{}, fmt.Errorf("%w: ConfigureHospitalSlots - hospital id is required", ErrInvalidInput)
	}

	hospital, err := s.staff.GetHospital(ctx, hospitalID)
	if err != nil {
		if errors.Is(err, staffservice.ErrHospitalNotFound) {
			return models.ConfigureSlotsResponse{}, fmt.Errorf("%w: ConfigureHospitalSlots - hospital %d", ErrHospitalNotFound, hospitalID)
		}

		return models.ConfigureSlotsResponse{}, fmt.Errorf("%w: ConfigureHospitalSlots - failed to get hospital: %v", ErrInternal, err)
	}

	if err := s.checkSlotsExist(ctx, req.TimeSlotIDs, "ConfigureHospitalSlots"); err != nil {
		return models.ConfigureSlotsResponse{}, err
	}

	var diff domain.SlotSetDiff
	err = s.txManager.Do(ctx, func(ctx context.Context) error {
		current, err := s.slotRepo.GetHospitalSlotIDs(ctx, hospitalID)
		if err != nil {
			return fmt.Errorf("%w: ConfigureHospitalSlots - failed to get current slots: %v", ErrInternal, err)
		}

		diff = domain.DiffSlotSets(current, req.TimeSlotIDs)

		for _, slotID := range diff.ToRemove {
			count, err := s.slotRepo.CountDoctorLinks(ctx, slotID, hospital.DoctorIDs)
			if err != nil {
				return fmt.Errorf("%w: ConfigureHospitalSlots - failed to count doctor links: %v", ErrInternal, err)
			}
			if count > 0 {
				return fmt.Errorf("%w: ConfigureHospitalSlots - slot %d is used by %d doctors", ErrSlotInUse, slotID, count)
			}
		}

		if len(diff.ToRemove) > 0 {
			if err := s.slotRepo.DeactivateHospitalLinks(ctx, hospitalID, diff.ToRemove); err != nil {
				return fmt.Errorf("%w: ConfigureHospitalSlots - failed to deactivate links: %v", ErrInternal, err)
			}
		}
		if len(diff.ToAdd) > 0 {
			if err := s.slotRepo.UpsertHospitalLinks(ctx, hospitalID, diff.ToAdd); err != nil {
				return fmt.Errorf("%w: ConfigureHospitalSlots - failed to upsert links: %v", ErrInternal, err)
			}
		}

		return nil
	})
	if err != nil {
		return models.ConfigureSlotsResponse{}, err
	}

	s.log.Info("timeslots.Service: ConfigureHospitalSlots - hospital %d: added %d, removed %d", hospitalID, len(diff.ToAdd), len(diff.ToRemove))

	return models.ConfigureSlotsResponse{Added: diff.ToAdd, Removed: diff.ToRemove}, nil
}

// ConfigureDoctorSlots приводит набор слотов врача к желаемому.
// Выход за пределы набора больницы не блокирует операцию,
// но фиксируется в логе
func (s *Service) ConfigureDoctorSlots(ctx context.Context, doctorID int64, req models.ConfigureSlotsRequest) (models.ConfigureSlotsResponse, error) {
	if doctorID <= 0 {
		return models.ConfigureSlotsResponse{}, fmt.Errorf("%w: ConfigureDoctorSlots - doctor id is required", ErrInvalidInput)
	}

	doctor, err := s.staff.GetDoctor(ctx, doctorID)
	if err != nil {
		if errors.Is(err, staffservice.ErrDoctorNotFound) {
			return models.ConfigureSlotsResponse{}, fmt.Errorf("%w: ConfigureDoctorSlots - doctor %d", ErrDoctorNotFound, doctorID)
		}

		return models.ConfigureSlotsResponse{}, fmt.Errorf("%w: ConfigureDoctorSlots - failed to get doctor: %v", ErrInternal, err)
	}

	if err := s.checkSlotsExist(ctx, req.TimeSlotIDs, "ConfigureDoctorSlots"); err != nil {
		return models.ConfigureSlotsResponse{}, err
	}

	s.warnOutsideHospitalSet(ctx, doctor, req.TimeSlotIDs)

	var diff domain.SlotSetDiff
	err = s.txManager.Do(ctx, func(ctx context.Context) error {
		current, err := s.slotRepo.GetDoctorSlotIDs(ctx, doctorID)
		if err != nil {
			return fmt.Errorf("%w: ConfigureDoctorSlots - failed to get current slots: %v", ErrInternal, err)
		}

		diff = domain.DiffSlotSets(current, req.TimeSlotIDs)

		if len(diff.ToRemove) > 0 {
			if err := s.slotRepo.DeactivateDoctorLinks(ctx, doctorID, diff.ToRemove); err != nil {
				return fmt.Errorf("%w: ConfigureDoctorSlots - failed to deactivate links: %v", ErrInternal, err)
			}
		}
		if len(diff.ToAdd) > 0 {
			if err := s.slotRepo.UpsertDoctorLinks(ctx, doctorID, diff.ToAdd); err != nil {
				return fmt.Errorf("%w: ConfigureDoctorSlots - failed to upsert links: %v", ErrInternal, err)
			}
		}

		return nil
	})
	if err != nil {
		return models.ConfigureSlotsResponse{}, err
	}

	s.log.Info("timeslots.Service: ConfigureDoctorSlots - doctor %d: added %d, removed %d", doctorID, len(diff.ToAdd), len(diff.ToRemove))

	return models.ConfigureSlotsResponse{Added: diff.ToAdd, Removed: diff.ToRemove}, nil
}

// GetDoctorConfiguredSlots возвращает слоты, настроенные врачом
func (s *Service) GetDoctorConfiguredSlots(ctx context.Context, doctorID int64) ([]models.TimeSlotResponse, error) {
	if doctorID <= 0 {
		return nil, fmt.Errorf("%w: GetDoctorConfiguredSlots - doctor id is required", ErrInvalidInput)
	}

	ids, err := s.slotRepo.GetDoctorSlotIDs(ctx, doctorID)
	if err != nil {
		return nil, fmt.Errorf("%w: GetDoctorConfiguredSlots - failed to get slot ids: %v", ErrInternal, err)
	}

	if len(ids) == 0 {
		return []models.TimeSlotResponse{}, nil
	}

	slots, err := s.slotRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("%w: GetDoctorConfiguredSlots - failed to get slots: %v", ErrInternal, err)
	}

	result := make([]models.TimeSlotResponse, 0, len(slots))
	for _, slot := range slots {
		result = append(result, models.NewTimeSlotResponse(slot))
	}

	return result, nil
}

// checkSlotsExist проверяет, что все запрошенные слоты есть в каталоге
// и активны
func (s *Service) checkSlotsExist(ctx context.Context, slotIDs []int64, method string) error {
	if len(slotIDs) == 0 {
		return nil
	}

	slots, err := s.slotRepo.GetByIDs(ctx, slotIDs)
	if err != nil {
		return fmt.Errorf("%w: %s - failed to get slots: %v", ErrInternal, method, err)
	}

	found := make(map[int64]struct{}, len(slots))
	for _, slot := range slots {
		found[slot.ID] = struct{}{}
	}

	for _, id := range slotIDs {
		if _, ok := found[id]; !ok {
			return fmt.Errorf("%w: %s - slot %d", ErrSlotNotFound, method, id)
		}
	}

	return nil
}

// warnOutsideHospitalSet фиксирует в логе слоты врача, которых нет
// в наборе его больницы
func (s *Service) warnOutsideHospitalSet(ctx context.Context, doctor *staffservice.Doctor, slotIDs []int64) {
	hospitalIDs, err := s.slotRepo.GetHospitalSlotIDs(ctx, doctor.HospitalID)
	if err != nil {
		s.log.Warn("timeslots.Service: ConfigureDoctorSlots - failed to get hospital %d slots: %v", doctor.HospitalID, err)

		return
	}

	hospitalSet := make(map[int64]struct{}, len(hospitalIDs))
	for _, id := range hospitalIDs {
		hospitalSet[id] = struct{}{}
	}

	for _, id := range slotIDs {
		if _, ok := hospitalSet[id]; !ok {
			s.log.Warn("timeslots.Service: ConfigureDoctorSlots - doctor %d requested slot %d outside hospital %d set", doctor.ID, id, doctor.HospitalID)
		}
	}
}

// resolveTimes превращает запрос в отсортированный список валидных времен
func resolveTimes(req models.AddTimesRequest) ([]types.TimeString, error) {
	if len(req.Times) > 0 {
		seen := make(map[types.TimeString]struct{}, len(req.Times))
		result := make([]types.TimeString, 0, len(req.Times))
		for _, raw := range req.Times {
			t, err := types.NewTimeStringFromString(raw)
			if err != nil {
				return nil, fmt.Errorf("%w: AddTimes - invalid time %q: %v", ErrInvalidInput, raw, err)
			}
			if _, ok := seen[t]; ok {
				continue
			}
			seen[t] = struct{}{}
			result = append(result, t)
		}

		return result, nil
	}

	from, err := types.NewTimeStringFromString(req.From)
	if err != nil {
		return nil, fmt.Errorf("%w: AddTimes - invalid from %q: %v", ErrInvalidInput, req.From, err)
	}
	to, err := types.NewTimeStringFromString(req.To)
	if err != nil {
		return nil, fmt.Errorf("%w: AddTimes - invalid to %q: %v", ErrInvalidInput, req.To, err)
	}
	if !from.IsBefore(to) {
		return nil, fmt.Errorf("%w: AddTimes - from %s must be before to %s", ErrInvalidInput, from, to)
	}

	result := make([]types.TimeString, 0)
	for t := from; t.IsBefore(to); {
		result = append(result, t)

		next, err := t.AddMinutes(domain.SlotGridStepMinutes)
		if err != nil || !t.IsBefore(next) {
			break
		}
		t = next
	}

	return result, nil
}
