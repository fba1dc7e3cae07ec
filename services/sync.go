package services

import "inventario-backend/models"

// SyncPC пересчитывает производные поля ПК.
// responsible - текущее состояние ответственного pc.ResponsibleID (nil, если не задан).
func SyncPC(pc *models.PC, responsible *models.Person) {
	if responsible != nil && responsible.OrgNodeID != nil {
		pc.OrgNodeID = *responsible.OrgNodeID
	}
}

// SyncPeripheral пересчитывает производные поля периферии.
// Связанный ПК задает ответственного и узел; без ПК узел берется у ответственного.
func SyncPeripheral(p *models.Peripheral, pc *models.PC, responsible *models.Person) {
	if pc != nil {
		p.ResponsibleID = copyID(pc.ResponsibleID)
		orgNodeID := pc.OrgNodeID
		p.OrgNodeID = &orgNodeID
		return
	}

	if responsible != nil && responsible.OrgNodeID != nil {
		p.OrgNodeID = copyID(responsible.OrgNodeID)
	}
}

func copyID(id *uint) *uint {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}
