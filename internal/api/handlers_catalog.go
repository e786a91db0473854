package api

import (
	"net/http"

	"servicefinder/internal/service"
)

func (h *Handler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var in service.CategoryInput
	if err := decode(r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}
	c, err := h.svc.Categories.Create(r.Context(), in, actorFrom(r.Context()))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeSuccess(w, http.StatusCreated, "Category created successfully", c)
}

func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.svc.Categories.List(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeSuccess(w, http.StatusOK, "Categories fetched successfully", categories)
}

func (h *Handler) GetCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	c, err := h.svc.Categories.Get(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeSuccess(w, http.StatusOK, "Category fetched successfully", c)
}

func (h *Handler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var patch service.CategoryPatch
	if err := decode(r, &patch); err != nil {
		h.writeError(w, r, err)
		return
	}
	c, err := h.svc.Categories.Update(r.Context(), id, patch, actorFrom(r.Context()))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeSuccess(w, http.StatusOK, "Category updated successfully", c)
}

func (h *Handler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := h.svc.Categories.Delete(r.Context(), id, actorFrom(r.Context())); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeSuccess(w, http.StatusOK, "Category deleted successfully", nil)
}

func (h *Handler) CreateSubCategory(w http.ResponseWriter, r *http.Request) {
	var in service.SubCategoryInput
	if err := decode(r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}
	sub, err := h.svc.Categories.CreateSubCategory(r.Context(), in, actorFrom(r.Context()))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeSuccess(w, http.StatusCreated, "SubCategory created successfully", sub)
}

func (h *Handler) ListSubCategories(w http.ResponseWriter, r *http.Request) {
	categoryID, err := pathID(r, "categoryId")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	subs, err := h.svc.Categories.ListSubCategories(r.Context(), categoryID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeSuccess(w, http.StatusOK, "SubCategories fetched successfully", subs)
}

func (h *Handler) UpdateSubCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var patch service.SubCategoryPatch
	if err := decode(r, &patch); err != nil {
		h.writeError(w, r, err)
		return
	}
	sub, err := h.svc.Categories.UpdateSubCategory(r.Context(), id, patch, actorFrom(r.Context()))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeSuccess(w, http.StatusOK, "SubCategory updated successfully", sub)
}

func (h *Handler) DeleteSubCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := h.svc.Categories.DeleteSubCategory(r.Context(), id, actorFrom(r.Context())); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeSuccess(w, http.StatusOK, "SubCategory deleted successfully", nil)
}

func (h *Handler) CreatePackage(w http.ResponseWriter, r *http.Request) {
	var in service.PackageInput
	if err := decode(r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}
	pkg, err := h.svc.Packages.Create(r.Context(), in, actorFrom(r.Context()))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeSuccess(w, http.StatusCreated, "Package created successfully", pkg)
}

func (h *Handler) ListPackages(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "userId")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	packages, err := h.svc.Packages.ListByUser(r.Context(), userID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeSuccess(w, http.StatusOK, "Packages fetched successfully", packages)
}

func (h *Handler) UpdatePackage(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var patch service.PackagePatch
	if err := decode(r, &patch); err != nil {
		h.writeError(w, r, err)
		return
	}
	pkg, err := h.svc.Packages.Update(r.Context(), id, patch, actorFrom(r.Context()))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeSuccess(w, http.StatusOK, "Package updated successfully", pkg)
}

func (h *Handler) DeletePackage(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := h.svc.Packages.Delete(r.Context(), id, actorFrom(r.Context())); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeSuccess(w, http.StatusOK, "Package deleted successfully", nil)
}

func (h *Handler) CreatePortfolio(w http.ResponseWriter, r *http.Request) {
	var in service.PortfolioInput
	if err := decode(r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}
	p, err := h.svc.Portfolios.Create(r.Context(), in, actorFrom(r.Context()))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeSuccess(w, http.StatusCreated, "Portfolio created successfully", p)
}

func (h *Handler) ListPortfolios(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "userId")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	portfolios, err := h.svc.Portfolios.ListByUser(r.Context(), userID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeSuccess(w, http.StatusOK, "Portfolios fetched successfully", portfolios)
}

func (h *Handler) UpdatePortfolio(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var patch service.PortfolioPatch
	if err := decode(r, &patch); err != nil {
		h.writeError(w, r, err)
		return
	}
	p, err := h.svc.Portfolios.Update(r.Context(), id, patch, actorFrom(r.Context()))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeSuccess(w, http.StatusOK, "Portfolio updated successfully", p)
}

func (h *Handler) DeletePortfolio(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := h.svc.Portfolios.Delete(r.Context(), id, actorFrom(r.Context())); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeSuccess(w, http.StatusOK, "Portfolio deleted successfully", nil)
}

func (h *Handler) CreateCertification(w http.ResponseWriter, r *http.Request) {
	var in service.CertificationInput
	if err := decode(r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}
	c, err := h.svc.Certifications.Create(r.Context(), in, actorFrom(r.Context()))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeSuccess(w, http.StatusCreated, "Certification created successfully", c)
}

func (h *Handler) ListCertifications(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "userId")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	certs, err := h.svc.Certifications.ListByUser(r.Context(), userID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeSuccess(w, http.StatusOK, "Certifications fetched successfully", certs)
}

func (h *Handler) UpdateCertification(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var patch service.CertificationPatch
	if err := decode(r, &patch); err != nil {
		h.writeError(w, r, err)
		return
	}
	c, err := h.svc.Certifications.Update(r.Context(), id, patch, actorFrom(r.Context()))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeSuccess(w, http.StatusOK, "Certification updated successfully", c)
}

func (h *Handler) DeleteCertification(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := h.svc.Certifications.Delete(r.Context(), id, actorFrom(r.Context())); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeSuccess(w, http.StatusOK, "Certification deleted successfully", nil)
}

func (h *Handler) CreateReview(w http.ResponseWriter, r *http.Request) {
	var in service.ReviewInput
	if err := decode(r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}
	review, err := h.svc.Reviews.Create(r.Context(), in, actorFrom(r.Context()))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeSuccess(w, http.StatusCreated, "Review created successfully", review)
}

func (h *Handler) ListReviews(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.svc.Reviews.ListAll(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeSuccess(w, http.StatusOK, "Reviews fetched successfully", reviews)
}

// ListUserReviews returns the reviews written by {userId}.
func (h *Handler) ListUserReviews(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "userId")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	reviews, err := h.svc.Reviews.ListByAuthor(r.Context(), userID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeSuccess(w, http.StatusOK, "Reviews fetched successfully", reviews)
}

func (h *Handler) ListProviderReviews(w http.ResponseWriter, r *http.Request) {
	providerID, err := pathID(r, "providerId")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	reviews, err := h.svc.Reviews.ListByProvider(r.Context(), providerID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeSuccess(w, http.StatusOK, "Reviews fetched successfully", reviews)
}

func (h *Handler) GetReview(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	review, err := h.svc.Reviews.Get(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeSuccess(w, http.StatusOK, "Review fetched successfully", review)
}

func (h *Handler) UpdateReview(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var patch service.ReviewPatch
	if err := decode(r, &patch); err != nil {
		h.writeError(w, r, err)
		return
	}
	review, err := h.svc.Reviews.Update(r.Context(), id, patch, actorFrom(r.Context()))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeSuccess(w, http.StatusOK, "Review updated successfully", review)
}

func (h *Handler) DeleteReview(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := h.svc.Reviews.Delete(r.Context(), id, actorFrom(r.Context())); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeSuccess(w, http.StatusOK, "Review deleted successfully", nil)
}
