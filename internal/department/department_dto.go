package department

type CreateDepartmentRequest struct {
	Name string `json:"name" binding:"required"`
}

type UpdateDepartmentRequest struct {
	Name string `json:"name" binding:"required"`
}

type DepartmentResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
