package gin

import (
	"net/http"
	"strconv"

	"github.com/fwojciec/antmaster"
	"github.com/gin-gonic/gin"
)

// maxPageSize caps GET /api/species.
const maxPageSize = 500

func (s *Server) listSpecies(c *gin.Context) {
	var filter antmaster.SpeciesFilter
	if name := c.Query("name"); name != "" {
		filter.ScientificName = &name
	}
	if genus := c.Query("genus"); genus != "" {
		filter.Genus = &genus
	}
	var err error
	if filter.Limit, err = intQuery(c, "limit", maxPageSize); err != nil {
		s.fail(c, err)
		return
	}
	if filter.Offset, err = intQuery(c, "offset", 0); err != nil {
		s.fail(c, err)
		return
	}
	if filter.Limit == 0 || filter.Limit > maxPageSize {
		filter.Limit = maxPageSize
	}

	species, err := s.species.FindSpecies(c.Request.Context(), filter)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, species)
}

func (s *Server) getSpecies(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		s.fail(c, err)
		return
	}
	species, err := s.species.FindSpeciesByID(c.Request.Context(), id)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, species)
}

func (s *Server) createSpecies(c *gin.Context) {
	var species antmaster.Species
	if err := c.ShouldBindJSON(&species); err != nil {
		s.fail(c, antmaster.Errorf(antmaster.EINVALID, "invalid request body"))
		return
	}
	species.ID = 0
	if err := s.species.CreateSpecies(c.Request.Context(), &species); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, &species)
}

func (s *Server) createSpeciesBatch(c *gin.Context) {
	var batch []*antmaster.Species
	if err := c.ShouldBindJSON(&batch); err != nil {
		s.fail(c, antmaster.Errorf(antmaster.EINVALID, "invalid request body"))
		return
	}
	for _, species := range batch {
		if species == nil {
			s.fail(c, antmaster.Errorf(antmaster.EINVALID, "null species in batch"))
			return
		}
		species.ID = 0
	}

	result, err := s.importerFor().Import(c.Request.Context(), batch)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) deleteSpecies(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		s.fail(c, err)
		return
	}
	if err := s.species.DeleteSpecies(c.Request.Context(), id); err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) getDescription(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		s.fail(c, err)
		return
	}
	desc, err := s.species.FindDescription(c.Request.Context(), id)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, desc)
}

func idParam(c *gin.Context) (int, error) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return 0, antmaster.Errorf(antmaster.EINVALID, "invalid species id %q", c.Param("id"))
	}
	return id, nil
}

func intQuery(c *gin.Context, key string, def int) (int, error) {
	v := c.Query(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, antmaster.Errorf(antmaster.EINVALID, "invalid %s %q", key, v)
	}
	return n, nil
}
